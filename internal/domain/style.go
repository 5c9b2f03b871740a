package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
)

// LearningStyle is shared by a student's learning style and an instructor's
// teaching style.
type LearningStyle string

const (
	LearningMixed       LearningStyle = "mixed"
	LearningPractical   LearningStyle = "practical"
	LearningTheoretical LearningStyle = "theoretical"
)

// ClassMode is the class delivery preference of a student or instructor.
type ClassMode string

const (
	ClassMixed             ClassMode = "mixed"
	ClassWithTechnology    ClassMode = "with_technology"
	ClassWithoutTechnology ClassMode = "without_technology"
)

var LearningStyles = []LearningStyle{LearningMixed, LearningPractical, LearningTheoretical}

var ClassModes = []ClassMode{ClassMixed, ClassWithTechnology, ClassWithoutTechnology}

// Legacy spellings that still show up in seeded graphs.
var learningAliases = map[string]LearningStyle{
	"mixed":       LearningMixed,
	"mixto":       LearningMixed,
	"practical":   LearningPractical,
	"practico":    LearningPractical,
	"theoretical": LearningTheoretical,
	"theory":      LearningTheoretical,
	"teorico":     LearningTheoretical,
}

var classAliases = map[string]ClassMode{
	"mixed":              ClassMixed,
	"mixto":              ClassMixed,
	"hybrid":             ClassMixed,
	"with_technology":    ClassWithTechnology,
	"with_tech":          ClassWithTechnology,
	"con_tecnologia":     ClassWithTechnology,
	"without_technology": ClassWithoutTechnology,
	"without_tech":       ClassWithoutTechnology,
	"no_tech":            ClassWithoutTechnology,
	"sin_tecnologia":     ClassWithoutTechnology,
}

func (s LearningStyle) Valid() bool {
	v, ok := learningAliases[string(s)]
	return ok && v == s
}

func (m ClassMode) Valid() bool {
	v, ok := classAliases[string(m)]
	return ok && v == m
}

// ParseLearningStyle accepts canonical values and known aliases, rejecting
// anything else.
func ParseLearningStyle(raw string) (LearningStyle, error) {
	if s, ok := learningAliases[normalizeToken(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("learning style %q: %w", raw, apperr.ErrInvalidArgument)
}

func ParseClassMode(raw string) (ClassMode, error) {
	if m, ok := classAliases[normalizeToken(raw)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("class mode %q: %w", raw, apperr.ErrInvalidArgument)
}

// CoerceLearningStyle maps unknown values to mixed. ok is false when the raw
// value had to be coerced.
func CoerceLearningStyle(raw string) (LearningStyle, bool) {
	if s, ok := learningAliases[normalizeToken(raw)]; ok {
		return s, true
	}
	return LearningMixed, false
}

func CoerceClassMode(raw string) (ClassMode, bool) {
	if m, ok := classAliases[normalizeToken(raw)]; ok {
		return m, true
	}
	return ClassMixed, false
}

// normalizeToken lower-cases, strips diacritics and folds separators to "_".
func normalizeToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("-", "_", " ", "_").Replace(folded)
	return folded
}
