package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/placement"
)

const pushYAML = `
name: push right
screen:
  width: 400
  height: 300
placement:
  collision: push
  pack_resistance: 20
  move_off_resistance: always
boxes:
  right:
    x: 200
    y: 0
    width: 200
    height: 300
windows:
  - {id: 1, class: A, x: 0, y: 0, width: 100, height: 100}
  - {id: 2, class: B, x: 100, y: 0, width: 100, height: 100}
  - {id: 3, class: C, x: 0, y: 0, width: 50, height: 50, box: right}
moves:
  - {window: 1, x: 50, y: 0}
  - {window: 3, x: 190, y: 10, mode: constrain}
  - {window: 1, x: 0, y: 0, mode: teleport}
`

const packTOML = `
name = "pack"

[screen]
width = 400
height = 300

[placement]
collision = "pack"
pack_resistance = 20

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
gravity = "southeast"

[[moves]]
window = 1
x = 115
y = 0
`

func TestDecodeYAML(t *testing.T) {
	s, err := Decode([]byte(pushYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Placement.Collision != config.CollisionPush || s.Placement.PackResistance != "20" {
		t.Fatalf("unexpected placement %+v", s.Placement)
	}
	if len(s.Windows) != 3 || s.Windows[2].Box != "right" {
		t.Fatalf("unexpected windows %+v", s.Windows)
	}
	if len(s.Moves) != 3 || s.Moves[1].Mode != "constrain" {
		t.Fatalf("unexpected moves %+v", s.Moves)
	}
}

func TestDecodeTOML(t *testing.T) {
	s, err := Decode([]byte(packTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Placement.PackResistance != "20" {
		t.Fatalf("expected integer resistance to decode, got %q", s.Placement.PackResistance)
	}
	if s.Windows[1].Gravity != "southeast" {
		t.Fatalf("unexpected gravity %q", s.Windows[1].Gravity)
	}
}

func TestDecodeRejectsInconsistentScenario(t *testing.T) {
	bad := `
screen: {width: 400, height: 300}
placement: {collision: shove}
windows:
  - {id: 1, x: 0, y: 0, width: 100, height: 100, box: nowhere}
  - {id: 1, x: 0, y: 0, width: 100, height: 100}
moves:
  - {window: 9, x: 0, y: 0}
`
	_, err := Decode([]byte(bad), FormatYAML)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"placement.collision", "unknown box", "duplicate id", "unknown window 9"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestDecodeRejectsBadResistance(t *testing.T) {
	_, err := Decode([]byte("screen: {width: 10, height: 10}\nplacement: {pack_resistance: sometimes}\n"), FormatYAML)
	if err == nil {
		t.Fatalf("expected resistance error")
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor("a/b.TOML") != FormatTOML || FormatFor("a/b.yaml") != FormatYAML || FormatFor("b") != FormatYAML {
		t.Fatalf("unexpected format detection")
	}
}

func TestRunReplaysMoves(t *testing.T) {
	s, err := Decode([]byte(pushYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	report, err := Run(s, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantCommits := []Commit{
		{Window: 2, X: 150, Y: 0, Width: 100, Height: 100},
		{Window: 1, X: 50, Y: 0, Width: 100, Height: 100},
		{Window: 3, X: 150, Y: 10, Width: 50, Height: 50},
	}
	if diff := cmp.Diff(wantCommits, report.Commits); diff != "" {
		t.Fatalf("commits mismatch (-want +got):\n%s", diff)
	}

	if len(report.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(report.Steps))
	}
	if d := report.Steps[0].Result.Displaced; len(d) != 1 || d[0].ID != 2 || d[0].Direction != placement.PushRight {
		t.Fatalf("expected window 2 pushed right, got %+v", d)
	}
	if report.Steps[2].Err == "" {
		t.Fatalf("expected unknown mode to be reported on its step")
	}

	if got := report.BoxName(report.Windows[2].Container); got != "right" {
		t.Fatalf("expected window 3 in box right, got %q", got)
	}
	if report.BoxName(placement.RootContainer) != "" {
		t.Fatalf("root container should have no box name")
	}
}

func TestRunPacksFromTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.toml")
	if err := os.WriteFile(path, []byte(packTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	report, err := Run(s, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []Commit{{Window: 1, X: 100, Y: 0, Width: 100, Height: 100}}
	if diff := cmp.Diff(want, report.Commits); diff != "" {
		t.Fatalf("commits mismatch (-want +got):\n%s", diff)
	}
	if report.Windows[1].Gravity != placement.GravitySouthEast {
		t.Fatalf("expected gravity to be carried, got %v", report.Windows[1].Gravity)
	}
}
