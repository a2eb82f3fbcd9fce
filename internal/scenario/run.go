package scenario

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/movemode"
	"github.com/1broseidon/framefit/internal/placement"
)

// Commit is one geometry the engine made authoritative, in order.
type Commit struct {
	Window placement.WindowID `json:"window"`
	X      int                `json:"x"`
	Y      int                `json:"y"`
	Width  int                `json:"width"`
	Height int                `json:"height"`
}

// Step is the outcome of one replayed move.
type Step struct {
	Move   Move            `json:"move"`
	Result movemode.Result `json:"result"`
	Err    string          `json:"error,omitempty"`
}

// Report is what a replay produced.
type Report struct {
	Name    string                    `json:"name,omitempty"`
	Screen  placement.Screen          `json:"screen"`
	Boxes   map[string]placement.Rect `json:"boxes,omitempty"`
	Steps   []Step                    `json:"steps"`
	Commits []Commit                  `json:"commits"`
	// Windows is the final arrangement in scan order.
	Windows []placement.Window `json:"windows"`

	boxNames map[placement.ContainerID]string
}

// BoxName returns the box a container id was assigned, or "" for the
// screen.
func (r *Report) BoxName(id placement.ContainerID) string {
	return r.boxNames[id]
}

// boxLookup serves box bounds to the engine.
type boxLookup map[placement.ContainerID]placement.Rect

func (l boxLookup) ContainerBounds(id placement.ContainerID) (placement.Rect, error) {
	r, ok := l[id]
	if !ok {
		return placement.Rect{}, fmt.Errorf("no box with id %d", id)
	}
	return r, nil
}

// PlacementConfig converts the placement section into engine tunables,
// using the daemon's defaults for anything left out.
func (s *Scenario) PlacementConfig() (placement.Config, movemode.Policy, error) {
	def := config.DefaultConfig()
	p := def.Placement
	if s.Placement.Collision != "" {
		p.Collision = s.Placement.Collision
	}
	if s.Placement.PackResistance != "" {
		p.PackResistance = config.ResistanceSetting(s.Placement.PackResistance)
	}
	if s.Placement.MoveOffResistance != "" {
		p.MoveOffResistance = config.ResistanceSetting(s.Placement.MoveOffResistance)
	}
	p.Grid = config.Grid{
		Enabled: s.Placement.Grid.Enabled,
		Width:   s.Placement.Grid.Width,
		Height:  s.Placement.Grid.Height,
	}
	def.Placement = p

	pcfg, err := def.PlacementConfig()
	if err != nil {
		return placement.Config{}, movemode.Policy{}, err
	}
	return pcfg, movemode.PolicyFromConfig(def), nil
}

// Engine builds an engine holding the scenario's windows. Every commit is
// appended to the returned log.
func (s *Scenario) Engine(logger *log.Logger) (*placement.Engine, *[]Commit, error) {
	pcfg, _, err := s.PlacementConfig()
	if err != nil {
		return nil, nil, err
	}

	ids := s.boxIDs()
	lookup := make(boxLookup, len(ids))
	for name, id := range ids {
		b := s.Boxes[name]
		lookup[id] = placement.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	}

	reg := placement.NewRegistry()
	for _, sw := range s.Windows {
		gravity := placement.GravityNorthWest
		if sw.Gravity != "" {
			if gravity, err = placement.ParseGravity(sw.Gravity); err != nil {
				return nil, nil, err
			}
		}
		reg.Add(placement.Window{
			ID: placement.WindowID(sw.ID),
			Frame: placement.Frame{
				X: sw.X, Y: sw.Y, Width: sw.Width, Height: sw.Height, Border: sw.Border,
			},
			Gravity:   gravity,
			Container: ids[sw.Box],
			Desktop:   sw.Desktop,
			Mapped:    !sw.Unmapped,
			Class:     sw.Class,
		})
	}

	commits := &[]Commit{}
	record := placement.CommitterFunc(func(w *placement.Window, x, y, width, height, _ int) error {
		*commits = append(*commits, Commit{Window: w.ID, X: x, Y: y, Width: width, Height: height})
		return nil
	})

	screen := placement.Screen{
		Width:  s.Screen.Width,
		Height: s.Screen.Height,
		Margins: placement.Margins{
			Left:   s.Screen.Margins.Left,
			Right:  s.Screen.Margins.Right,
			Top:    s.Screen.Margins.Top,
			Bottom: s.Screen.Margins.Bottom,
		},
	}
	opts := []placement.Option{
		placement.WithContainers(lookup),
		placement.WithCommitter(record),
	}
	if logger != nil {
		opts = append(opts, placement.WithLogger(logger))
	}
	return placement.NewEngine(reg, screen, pcfg, opts...), commits, nil
}

// Run replays every move in order. A move that fails is recorded in its
// step and the replay continues.
func Run(s *Scenario, logger *log.Logger) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	_, policy, err := s.PlacementConfig()
	if err != nil {
		return nil, err
	}
	engine, commits, err := s.Engine(logger)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:   s.Name,
		Screen: engine.Screen(),
		Boxes:  make(map[string]placement.Rect, len(s.Boxes)),
	}
	report.boxNames = make(map[placement.ContainerID]string, len(s.Boxes))
	for name, id := range s.boxIDs() {
		report.boxNames[id] = name
	}
	for name, b := range s.Boxes {
		report.Boxes[name] = placement.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	}

	for _, m := range s.Moves {
		step := Step{Move: m}
		mode, err := movemode.ParseMode(m.Mode)
		if err != nil {
			step.Err = err.Error()
			report.Steps = append(report.Steps, step)
			continue
		}
		w, ok := engine.Registry().Get(placement.WindowID(m.Window))
		if !ok {
			step.Err = movemode.ErrUnknownWindow.Error()
			report.Steps = append(report.Steps, step)
			continue
		}
		res, err := movemode.Place(engine, w, m.X, m.Y, mode, policy)
		step.Result = res
		if err != nil {
			step.Err = err.Error()
		}
		report.Steps = append(report.Steps, step)
	}

	report.Commits = *commits
	report.Windows = engine.Registry().Windows()
	return report, nil
}
