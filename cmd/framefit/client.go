package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/render"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, status)
			}
			s := newStyles(out)
			fmt.Fprintln(out, s.title.Render("framefit daemon"))
			s.keyValue(out, "uptime", (time.Duration(status.UptimeSeconds) * time.Second).String())
			s.keyValue(out, "screen", fmt.Sprintf("%dx%d", status.ScreenWidth, status.ScreenHeight))
			s.keyValue(out, "windows", fmt.Sprintf("%d (%d mapped)", status.WindowCount, status.MappedCount))
			s.keyValue(out, "move", status.Phase)
			s.keyValue(out, "collision", status.Collision)
			s.keyValue(out, "grid", status.Grid)
			s.keyValue(out, "pack resistance", status.PackResistance)
			s.keyValue(out, "move-off resistance", status.MoveOffResistance)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to re-read its config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ipc.NewClient().Reload(); err != nil {
				return err
			}
			newStyles(cmd.OutOrStdout()).success(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}

func newWindowsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List the windows the daemon manages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := ipc.NewClient().ListWindows()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, ipc.WindowsData{Windows: windows})
			}
			fmt.Fprintln(out, render.Windows(windows, render.Options{Renderer: render.NewRenderer(out)}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newPlaceCmd() *cobra.Command {
	var (
		mode   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "place <window-id> <x> <y>",
		Short: "Move a window, resolving the position like a drag would",
		Long: `Move a window to (x, y) in its container's coordinates.

The window id accepts decimal or 0x-prefixed hex as printed by 'framefit windows'.
--mode runs a single resolver instead of the configured pipeline.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePlaceArgs(args, mode)
			if err != nil {
				return err
			}
			data, err := ipc.NewClient().Place(payload)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, data)
			}
			s := newStyles(out)
			s.success(out, "0x%x %d,%d -> %d,%d", data.WindowID, data.FromX, data.FromY, data.X, data.Y)
			for _, d := range data.Displaced {
				s.keyValue(out, fmt.Sprintf("  pushed 0x%x", d.WindowID), fmt.Sprintf("%s to %d,%d", d.Direction, d.X, d.Y))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "move (default), grid, pack, push or constrain")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func parsePlaceArgs(args []string, mode string) (ipc.PlacePayload, error) {
	id, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil || id == 0 {
		return ipc.PlacePayload{}, fmt.Errorf("invalid window id %q", args[0])
	}
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return ipc.PlacePayload{}, fmt.Errorf("invalid x %q", args[1])
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return ipc.PlacePayload{}, fmt.Errorf("invalid y %q", args[2])
	}
	return ipc.PlacePayload{WindowID: uint32(id), X: x, Y: y, Mode: mode}, nil
}
