package scoring

import (
	"fmt"
	"math"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
)

// Weights are the top-level blend weights. They must sum to 1.
type Weights struct {
	Style       float64 `koanf:"style" json:"style"`
	Affinity    float64 `koanf:"affinity" json:"affinity"`
	Quality     float64 `koanf:"quality" json:"quality"`
	Performance float64 `koanf:"performance" json:"performance"`
}

func (w Weights) Sum() float64 { return w.Style + w.Affinity + w.Quality + w.Performance }

type LearningTable map[domain.LearningStyle]map[domain.LearningStyle]float64

type ClassTable map[domain.ClassMode]map[domain.ClassMode]float64

// Config is the single canonical constant set used by the weighted strategy.
// Rows of the lookup tables are keyed by the student's value, columns by the
// instructor's.
type Config struct {
	LearningWeight float64       `koanf:"learning_weight"`
	ClassWeight    float64       `koanf:"class_weight"`
	Learning       LearningTable `koanf:"-"`
	Class          ClassTable    `koanf:"-"`

	GPATolerance         float64 `koanf:"gpa_tolerance"`
	RepeatTolerance      int     `koanf:"repeat_tolerance"`
	NeutralAffinity      float64 `koanf:"neutral_affinity"`
	MinConfidence        float64 `koanf:"min_confidence"`
	ConfidenceSaturation int     `koanf:"confidence_saturation"`

	ExperienceCapYears float64 `koanf:"experience_cap_years"`
	PassRateThreshold  float64 `koanf:"pass_rate_threshold"`
	PassRateExponent   float64 `koanf:"pass_rate_exponent"`
	EvaluationWeight   float64 `koanf:"evaluation_weight"`
	PassRateWeight     float64 `koanf:"pass_rate_weight"`
	ExperienceWeight   float64 `koanf:"experience_weight"`

	GPAThreshold    float64 `koanf:"gpa_threshold"`
	GPALowExponent  float64 `koanf:"gpa_low_exponent"`
	GPAHighExponent float64 `koanf:"gpa_high_exponent"`
	RepeatDecay     float64 `koanf:"repeat_decay"`
	GPAWeight       float64 `koanf:"gpa_weight"`
	RepeatWeight    float64 `koanf:"repeat_weight"`

	Weights Weights `koanf:"weights"`

	DisplayUpperKnee float64 `koanf:"display_upper_knee"`
	DisplayLowerKnee float64 `koanf:"display_lower_knee"`
}

func DefaultConfig() Config {
	return Config{
		LearningWeight: 0.65,
		ClassWeight:    0.35,
		Learning:       DefaultLearningTable(),
		Class:          DefaultClassTable(),

		GPATolerance:         15,
		RepeatTolerance:      1,
		NeutralAffinity:      0.5,
		MinConfidence:        0,
		ConfidenceSaturation: 15,

		ExperienceCapYears: 25,
		PassRateThreshold:  0.60,
		PassRateExponent:   0.8,
		EvaluationWeight:   0.50,
		PassRateWeight:     0.32,
		ExperienceWeight:   0.18,

		GPAThreshold:    0.60,
		GPALowExponent:  1.2,
		GPAHighExponent: 0.85,
		RepeatDecay:     0.4,
		GPAWeight:       0.78,
		RepeatWeight:    0.22,

		Weights: Weights{Style: 0.38, Affinity: 0.27, Quality: 0.22, Performance: 0.13},

		DisplayUpperKnee: 0.85,
		DisplayLowerKnee: 0.20,
	}
}

func DefaultLearningTable() LearningTable {
	const (
		mixed = domain.LearningMixed
		prac  = domain.LearningPractical
		theo  = domain.LearningTheoretical
	)
	return LearningTable{
		mixed: {mixed: 1.0, prac: 0.85, theo: 0.85},
		prac:  {mixed: 0.85, prac: 1.0, theo: 0.30},
		theo:  {mixed: 0.85, prac: 0.15, theo: 1.0},
	}
}

func DefaultClassTable() ClassTable {
	const (
		mixed = domain.ClassMixed
		with  = domain.ClassWithTechnology
		wout  = domain.ClassWithoutTechnology
	)
	return ClassTable{
		mixed: {mixed: 1.0, with: 0.80, wout: 0.80},
		with:  {mixed: 0.80, with: 1.0, wout: 0.30},
		wout:  {mixed: 0.80, with: 0.40, wout: 1.0},
	}
}

const weightEpsilon = 1e-9

// Validate checks weight sums, ranges and table completeness. Missing tables
// are filled from the defaults.
func (c *Config) Validate() error {
	if c.Learning == nil {
		c.Learning = DefaultLearningTable()
	}
	if c.Class == nil {
		c.Class = DefaultClassTable()
	}
	if err := sumsToOne("style weights", c.LearningWeight, c.ClassWeight); err != nil {
		return err
	}
	if err := sumsToOne("instructor weights", c.EvaluationWeight, c.PassRateWeight, c.ExperienceWeight); err != nil {
		return err
	}
	if err := sumsToOne("student weights", c.GPAWeight, c.RepeatWeight); err != nil {
		return err
	}
	w := c.Weights
	if err := sumsToOne("blend weights", w.Style, w.Affinity, w.Quality, w.Performance); err != nil {
		return err
	}
	if c.GPATolerance <= 0 || c.RepeatTolerance <= 0 {
		return fmt.Errorf("scoring: peer tolerances must be positive: %w", apperr.ErrInvalidArgument)
	}
	if c.ConfidenceSaturation <= 0 {
		return fmt.Errorf("scoring: confidence saturation must be positive: %w", apperr.ErrInvalidArgument)
	}
	if !unit(c.NeutralAffinity) || !unit(c.MinConfidence) {
		return fmt.Errorf("scoring: neutral affinity and min confidence must be in [0,1]: %w", apperr.ErrInvalidArgument)
	}
	if c.ExperienceCapYears <= 0 || c.RepeatDecay <= 0 {
		return fmt.Errorf("scoring: experience cap and repeat decay must be positive: %w", apperr.ErrInvalidArgument)
	}
	for _, th := range []float64{c.PassRateThreshold, c.GPAThreshold} {
		if th <= 0 || th >= 1 {
			return fmt.Errorf("scoring: thresholds must be in (0,1): %w", apperr.ErrInvalidArgument)
		}
	}
	for _, e := range []float64{c.PassRateExponent, c.GPALowExponent, c.GPAHighExponent} {
		if e <= 0 {
			return fmt.Errorf("scoring: exponents must be positive: %w", apperr.ErrInvalidArgument)
		}
	}
	if !(c.DisplayLowerKnee > 0 && c.DisplayLowerKnee < c.DisplayUpperKnee && c.DisplayUpperKnee < 1) {
		return fmt.Errorf("scoring: display knees must satisfy 0 < lower < upper < 1: %w", apperr.ErrInvalidArgument)
	}
	for _, row := range domain.LearningStyles {
		for _, col := range domain.LearningStyles {
			if v, ok := c.Learning[row][col]; !ok || !unit(v) {
				return fmt.Errorf("scoring: learning table %s/%s missing or out of range: %w", row, col, apperr.ErrInvalidArgument)
			}
		}
	}
	for _, row := range domain.ClassModes {
		for _, col := range domain.ClassModes {
			if v, ok := c.Class[row][col]; !ok || !unit(v) {
				return fmt.Errorf("scoring: class table %s/%s missing or out of range: %w", row, col, apperr.ErrInvalidArgument)
			}
		}
	}
	return nil
}

func sumsToOne(name string, ws ...float64) error {
	var sum float64
	for _, w := range ws {
		if w < 0 {
			return fmt.Errorf("scoring: %s must be non-negative: %w", name, apperr.ErrInvalidArgument)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightEpsilon {
		return fmt.Errorf("scoring: %s sum to %.6f, want 1: %w", name, sum, apperr.ErrInvalidArgument)
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }
