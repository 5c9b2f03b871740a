package scoring

import (
	"math"

	"github.com/yungbote/tutormatch-backend/internal/domain"
)

const WeightedVersion = "weighted-v1"

type weighted struct {
	cfg Config
}

// NewWeighted returns the weighted strategy. cfg must have passed Validate.
func NewWeighted(cfg Config) Strategy {
	if cfg.Learning == nil {
		cfg.Learning = DefaultLearningTable()
	}
	if cfg.Class == nil {
		cfg.Class = DefaultClassTable()
	}
	return &weighted{cfg: cfg}
}

func (w *weighted) Version() string { return WeightedVersion }

func (w *weighted) StyleCompatibility(s domain.Student, in domain.Instructor) Style {
	learning := w.learning(s.LearningStyle, in.TeachingStyle)
	class := w.class(s.ClassMode, in.ClassMode)
	return Style{
		Learning: learning,
		Class:    class,
		Combined: clamp01(w.cfg.LearningWeight*learning + w.cfg.ClassWeight*class),
	}
}

// Values outside the closed sets are treated as mixed.
func (w *weighted) learning(student, instructor domain.LearningStyle) float64 {
	if !student.Valid() {
		student = domain.LearningMixed
	}
	if !instructor.Valid() {
		instructor = domain.LearningMixed
	}
	return w.cfg.Learning[student][instructor]
}

func (w *weighted) class(student, instructor domain.ClassMode) float64 {
	if !student.Valid() {
		student = domain.ClassMixed
	}
	if !instructor.Valid() {
		instructor = domain.ClassMixed
	}
	return w.cfg.Class[student][instructor]
}

func (w *weighted) Affinity(peers, passed int) Affinity {
	if peers <= 0 {
		return w.NeutralAffinity()
	}
	if passed < 0 {
		passed = 0
	}
	if passed > peers {
		passed = peers
	}
	conf := math.Min(1, float64(peers)/float64(w.cfg.ConfidenceSaturation))
	return Affinity{
		Ratio:      float64(passed) / float64(peers),
		Confidence: math.Max(w.cfg.MinConfidence, conf),
		Peers:      peers,
		Passed:     passed,
	}
}

func (w *weighted) NeutralAffinity() Affinity {
	return Affinity{Ratio: w.cfg.NeutralAffinity, Confidence: w.cfg.MinConfidence}
}

func (w *weighted) InstructorQuality(in domain.Instructor) float64 {
	evaluation := clamp01(in.Evaluation / 5)
	passRate := w.boostedPassRate(clamp01(in.PassRate / 100))
	experience := w.experience(float64(in.YearsExperience))
	return clamp01(w.cfg.EvaluationWeight*evaluation +
		w.cfg.PassRateWeight*passRate +
		w.cfg.ExperienceWeight*experience)
}

// experience grows logarithmically and saturates at the cap.
func (w *weighted) experience(years float64) float64 {
	if years <= 0 {
		return 0
	}
	return clamp01(math.Log1p(years) / math.Log1p(w.cfg.ExperienceCapYears))
}

// boostedPassRate is the identity up to the threshold and a concave lift above it.
func (w *weighted) boostedPassRate(p float64) float64 {
	t := w.cfg.PassRateThreshold
	if p <= t {
		return p
	}
	return t + (1-t)*math.Pow((p-t)/(1-t), w.cfg.PassRateExponent)
}

func (w *weighted) StudentPerformance(s domain.Student) float64 {
	gpa := w.gpa(clamp01(s.GPA / 100))
	repeats := w.repeats(s.RepeatCount)
	return clamp01(w.cfg.GPAWeight*gpa + w.cfg.RepeatWeight*repeats)
}

func (w *weighted) gpa(g float64) float64 {
	t := w.cfg.GPAThreshold
	if g <= t {
		return t * math.Pow(g/t, w.cfg.GPALowExponent)
	}
	return t + (1-t)*math.Pow((g-t)/(1-t), w.cfg.GPAHighExponent)
}

// repeats is 1 at zero and decays toward, but never reaches, 0.
func (w *weighted) repeats(n int) float64 {
	if n < 0 {
		n = 0
	}
	return 1 / (1 + w.cfg.RepeatDecay*float64(n))
}

func (w *weighted) Blend(c Components) float64 {
	a := c.Affinity
	affinityTerm := a.Confidence*a.Ratio + (1-a.Confidence)*w.cfg.NeutralAffinity
	wt := w.cfg.Weights
	return clamp01(wt.Style*c.Style.Combined +
		wt.Affinity*affinityTerm +
		wt.Quality*c.Quality +
		wt.Performance*c.Performance)
}

// Display maps a blended score to 0..100. The middle band is linear. Above
// the upper knee the curve flattens exponentially with a continuous slope, so
// strong matches stay apart instead of piling up at 100. Below the lower knee
// a square-root curve lifts weak matches off 0.
func (w *weighted) Display(blended float64) float64 {
	s := clamp01(blended)
	hi, lo := w.cfg.DisplayUpperKnee, w.cfg.DisplayLowerKnee
	var out float64
	switch {
	case s > hi:
		tau := 1 - hi
		out = 100 * (hi + tau*(1-math.Exp(-(s-hi)/tau)))
	case s < lo:
		out = 100 * lo * math.Sqrt(s/lo)
	default:
		out = 100 * s
	}
	return round2(math.Min(100, math.Max(0, out)))
}

// PeerSimilarity is 1 for an identical peer and 0 at the edge of both tolerance bands.
func (w *weighted) PeerSimilarity(gpaDiff float64, repeatDiff int) float64 {
	g := 1 - math.Abs(gpaDiff)/w.cfg.GPATolerance
	r := 1 - math.Abs(float64(repeatDiff))/float64(w.cfg.RepeatTolerance)
	return round2(clamp01(clamp01(g)*0.6 + clamp01(r)*0.4))
}

func (w *weighted) PeerTolerances() (float64, int) {
	return w.cfg.GPATolerance, w.cfg.RepeatTolerance
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
