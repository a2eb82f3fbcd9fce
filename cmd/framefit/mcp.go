package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/logging"
	"github.com/1broseidon/framefit/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdio. Designed to be invoked by MCP clients.
Live tools talk to a running 'framefit daemon'; simulate works without one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context()).WithPrefix("mcp")
			return mcp.NewServer(ipc.NewClient(), logger).Run(cmd.Context())
		},
	})
	return cmd
}
