package config

// BuiltinBoxes returns the built-in box library.
//
// These are always available to box_assignments without being defined in
// YAML. Users can define additional custom boxes in their config file.
func BuiltinBoxes() map[string]Box {
	return map[string]Box{
		"full":        {Type: RegionFull},
		"left-half":   {Type: RegionLeftHalf},
		"right-half":  {Type: RegionRightHalf},
		"top-half":    {Type: RegionTopHalf},
		"bottom-half": {Type: RegionBottomHalf},
	}
}
