// Package runtimepath locates per-user runtime files such as the daemon
// socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// SocketEnv names the variable that overrides the socket location.
	SocketEnv  = "FRAMEFIT_SOCKET"
	socketName = "framefit.sock"
)

// Dir picks the first usable runtime directory: $XDG_RUNTIME_DIR, then an
// existing /run/user/<uid>, then a private directory under the system temp
// dir, created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := strconv.Itoa(os.Getuid())
	if dir := filepath.Join("/run/user", uid); isDir(dir) {
		return dir, nil
	}

	private := filepath.Join(os.TempDir(), "framefit-runtime-"+uid)
	if err := os.MkdirAll(private, 0o700); err != nil {
		return "", fmt.Errorf("create runtime dir %s: %w", private, err)
	}
	return private, nil
}

// SocketPath returns where the daemon listens.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
