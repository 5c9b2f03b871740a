package domain

import "time"

// Student is keyed by Name in the graph.
type Student struct {
	Name          string        `json:"name" validate:"required,max=120"`
	LearningStyle LearningStyle `json:"learning_style" validate:"learningstyle"`
	ClassMode     ClassMode     `json:"class_mode" validate:"classmode"`
	GPA           float64       `json:"gpa" validate:"gte=0,lte=100"`
	RepeatCount   int           `json:"repeat_count" validate:"gte=0"`
	// TotalScore caches 100 * student performance; recomputed on GPA or repeat changes.
	TotalScore   float64    `json:"total_score"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (s *Student) Validate() error { return validateStruct(s) }

// StudentPatch is a partial update; nil fields are left untouched.
type StudentPatch struct {
	LearningStyle *string  `json:"learning_style"`
	ClassMode     *string  `json:"class_mode"`
	GPA           *float64 `json:"gpa" validate:"omitempty,gte=0,lte=100"`
	RepeatCount   *int     `json:"repeat_count" validate:"omitempty,gte=0"`
}

func (p StudentPatch) Empty() bool {
	return p.LearningStyle == nil && p.ClassMode == nil && p.GPA == nil && p.RepeatCount == nil
}

// TouchesScore reports whether the patch changes an input of the cached total score.
func (p StudentPatch) TouchesScore() bool {
	return p.GPA != nil || p.RepeatCount != nil
}

// Apply validates the patch and copies it onto s.
func (p StudentPatch) Apply(s *Student) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.LearningStyle != nil {
		ls, err := ParseLearningStyle(*p.LearningStyle)
		if err != nil {
			return err
		}
		s.LearningStyle = ls
	}
	if p.ClassMode != nil {
		cm, err := ParseClassMode(*p.ClassMode)
		if err != nil {
			return err
		}
		s.ClassMode = cm
	}
	if p.GPA != nil {
		s.GPA = *p.GPA
	}
	if p.RepeatCount != nil {
		s.RepeatCount = *p.RepeatCount
	}
	return nil
}

// SimilarStudent is a peer of a reference student along with how close it is.
type SimilarStudent struct {
	Student    Student `json:"student"`
	GPADiff    float64 `json:"gpa_diff"`
	RepeatDiff int     `json:"repeat_diff"`
	Similarity float64 `json:"similarity"`
}
