package font

import "strconv"

// Weight is a coarse weight class, as understood by the CSS font shorthand.
type Weight uint8

const (
	Lighter Weight = iota
	Normal
	Bold
	Bolder
)

// weightCount is the number of weight classes.
const weightCount = 4

// ClassifyWeight maps a numeric weight (100..900) to its class.
//
//	w <= 300       Lighter
//	300 < w < 700  Normal
//	700 <= w < 900 Bold
//	w >= 900       Bolder
func ClassifyWeight(w int) Weight {
	switch {
	case w <= 300:
		return Lighter
	case w < 700:
		return Normal
	case w < 900:
		return Bold
	default:
		return Bolder
	}
}

// String returns the CSS keyword.
func (w Weight) String() string {
	switch w {
	case Lighter:
		return "lighter"
	case Normal:
		return "normal"
	case Bold:
		return "bold"
	case Bolder:
		return "bolder"
	default:
		return "Weight(" + strconv.Itoa(int(w)) + ")"
	}
}

// fallbacks lists the classes tried, in order, when w has no face.
func (w Weight) fallbacks() []Weight {
	switch w {
	case Lighter:
		return []Weight{Lighter, Normal, Bold, Bolder}
	case Bold:
		return []Weight{Bold, Bolder, Normal, Lighter}
	case Bolder:
		return []Weight{Bolder, Bold, Normal, Lighter}
	default:
		return []Weight{Normal, Lighter, Bold, Bolder}
	}
}
