// Package scoring holds the pure arithmetic behind instructor recommendations:
// style compatibility, peer affinity, instructor quality, student performance,
// the final blend and the display scale.
package scoring

import "github.com/yungbote/tutormatch-backend/internal/domain"

// Style is the style compatibility of a student/instructor pair.
type Style struct {
	Learning float64
	Class    float64
	Combined float64
}

// Affinity is the peer outcome signal for one instructor.
type Affinity struct {
	Ratio      float64
	Confidence float64
	Peers      int
	Passed     int
	// Degraded is set when the peer query failed and the neutral default was used.
	Degraded bool
}

// Components are the [0,1] inputs to the final blend.
type Components struct {
	Style       Style
	Affinity    Affinity
	Quality     float64
	Performance float64
}

// Strategy is one versioned set of scoring formulas.
type Strategy interface {
	Version() string
	StyleCompatibility(student domain.Student, instructor domain.Instructor) Style
	Affinity(peers, passed int) Affinity
	NeutralAffinity() Affinity
	InstructorQuality(in domain.Instructor) float64
	StudentPerformance(s domain.Student) float64
	Blend(c Components) float64
	Display(blended float64) float64
	PeerSimilarity(gpaDiff float64, repeatDiff int) float64
	PeerTolerances() (gpa float64, repeats int)
}

// Breakdown flattens components and the blended score for API output.
func Breakdown(c Components, blended float64) domain.ScoreBreakdown {
	return domain.ScoreBreakdown{
		Style:              c.Style.Combined,
		LearningStyle:      c.Style.Learning,
		ClassMode:          c.Style.Class,
		Affinity:           c.Affinity.Ratio,
		Confidence:         c.Affinity.Confidence,
		Peers:              c.Affinity.Peers,
		PeersPassed:        c.Affinity.Passed,
		AffinityDegraded:   c.Affinity.Degraded,
		InstructorQuality:  c.Quality,
		StudentPerformance: c.Performance,
		Blended:            blended,
	}
}

// Display score band edges: above UpperBandFloor is upper, below
// LowerBandCeiling is lower, anything else is middle.
const (
	UpperBandFloor   = 70.0
	LowerBandCeiling = 65.0
)

func BandOf(display float64) domain.Band {
	switch {
	case display > UpperBandFloor:
		return domain.BandUpper
	case display < LowerBandCeiling:
		return domain.BandLower
	default:
		return domain.BandMiddle
	}
}
