package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/scenario"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"daemon", "status", "reload", "windows", "place", "simulate", "config", "mcp"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestParsePlaceArgs(t *testing.T) {
	got, err := parsePlaceArgs([]string{"0x1a00003", "-20", "40"}, "push")
	if err != nil {
		t.Fatalf("parsePlaceArgs: %v", err)
	}
	want := ipc.PlacePayload{WindowID: 0x1a00003, X: -20, Y: 40, Mode: "push"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	for _, args := range [][]string{{"0", "1", "1"}, {"abc", "1", "1"}, {"1", "x", "1"}, {"1", "1", "y"}} {
		if _, err := parsePlaceArgs(args, ""); err == nil {
			t.Errorf("parsePlaceArgs(%v) should fail", args)
		}
	}
}

func TestSimulateJSON(t *testing.T) {
	path := writeFile(t, "push.yaml", `
screen: {width: 400, height: 300}
placement: {collision: push}
windows:
  - {id: 1, x: 0, y: 0, width: 100, height: 100}
  - {id: 2, x: 100, y: 0, width: 100, height: 100}
moves:
  - {window: 1, x: 50, y: 0}
`)
	out, err := execute(t, "simulate", "--json", path)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var report struct {
		Commits []scenario.Commit `json:"commits"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Commits) != 2 || report.Commits[0].Window != 2 || report.Commits[1].X != 50 {
		t.Fatalf("unexpected commits %+v", report.Commits)
	}
}

func TestSimulateTablesAndMap(t *testing.T) {
	path := writeFile(t, "pack.toml", `
name = "pack demo"
[screen]
width = 400
height = 200
[placement]
collision = "pack"
[[windows]]
id = 1
x = 0
y = 0
width = 100
height = 100
[[windows]]
id = 2
x = 200
y = 0
width = 100
height = 100
[[moves]]
window = 1
x = 110
y = 0
`)
	out, err := execute(t, "simulate", "--map", "--columns", "40", path)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, want := range []string{"pack demo", "Displaced", "Width", "100,0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimulateMissingFile(t *testing.T) {
	if _, err := execute(t, "simulate", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing scenario")
	}
}

func TestConfigCommands(t *testing.T) {
	path := writeFile(t, "config.yaml", "placement:\n  collision: pack\n  pack_resistance: 30\n")

	out, err := execute(t, "--config", path, "config", "validate")
	if err != nil || !strings.Contains(out, "config: ok") {
		t.Fatalf("validate: %v %q", err, out)
	}

	out, err = execute(t, "--config", path, "config", "explain", "placement.collision")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "value:\npack") || !strings.Contains(out, "source: file:") {
		t.Fatalf("unexpected explain output:\n%s", out)
	}

	out, err = execute(t, "config", "print", "--defaults")
	if err != nil || !strings.Contains(out, "collision: push") {
		t.Fatalf("print --defaults: %v\n%s", err, out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framefit", "config.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	if err != nil || !strings.Contains(out, "wrote "+path) {
		t.Fatalf("init: %v %q", err, out)
	}
	if _, err := execute(t, "--config", path, "config", "validate"); err != nil {
		t.Fatalf("written config does not validate: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Fatalf("expected init to refuse an existing file")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceBuiltin, Name: "left-half"}, "builtin:left-half"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
