package config

import (
	"fmt"
	"strconv"

	"github.com/1broseidon/framefit/internal/placement"
	"gopkg.in/yaml.v3"
)

// ResistanceSetting is a resistance as written in YAML: an integer
// (negative always snaps, positive is a pixel threshold) or one of the
// words "always" and "never".
type ResistanceSetting string

func (r *ResistanceSetting) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("resistance must be an integer, \"always\" or \"never\"")
	}
	if _, err := placement.ParseResistance(value.Value, placement.Never); err != nil {
		return err
	}
	*r = ResistanceSetting(value.Value)
	return nil
}

func (r ResistanceSetting) MarshalYAML() (any, error) {
	if n, err := strconv.Atoi(string(r)); err == nil {
		return n, nil
	}
	return string(r), nil
}

// Resolve converts the setting, using zero for a literal 0 or an empty
// setting.
func (r ResistanceSetting) Resolve(zero placement.Resistance) (placement.Resistance, error) {
	if r == "" {
		return zero, nil
	}
	return placement.ParseResistance(string(r), zero)
}
