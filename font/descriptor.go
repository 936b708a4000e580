package font

import "strconv"

// Descriptor selects a face: weight class, pixel size and family name.
type Descriptor struct {
	Weight Weight
	Size   float64
	Family string
}

// String renders the descriptor in CSS font shorthand, e.g. "bold 16px Arial".
func (d Descriptor) String() string {
	return d.Weight.String() + " " + strconv.FormatFloat(d.Size, 'g', -1, 64) + "px " + d.Family
}
