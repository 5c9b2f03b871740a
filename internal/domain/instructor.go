package domain

import "time"

// Instructor is keyed by Name in the graph.
type Instructor struct {
	Name            string        `json:"name" validate:"required,max=120"`
	TeachingStyle   LearningStyle `json:"teaching_style" validate:"learningstyle"`
	ClassMode       ClassMode     `json:"class_mode" validate:"classmode"`
	YearsExperience int           `json:"years_experience" validate:"gte=0"`
	Evaluation      float64       `json:"evaluation" validate:"gte=0,lte=5"`
	PassRate        float64       `json:"pass_rate" validate:"gte=0,lte=100"`
	Availability    int           `json:"availability" validate:"gte=0,lte=5"`
	// TotalScore caches 100 * instructor quality.
	TotalScore   float64    `json:"total_score"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (i *Instructor) Validate() error { return validateStruct(i) }

type InstructorPatch struct {
	TeachingStyle   *string  `json:"teaching_style"`
	ClassMode       *string  `json:"class_mode"`
	YearsExperience *int     `json:"years_experience" validate:"omitempty,gte=0"`
	Evaluation      *float64 `json:"evaluation" validate:"omitempty,gte=0,lte=5"`
	PassRate        *float64 `json:"pass_rate" validate:"omitempty,gte=0,lte=100"`
	Availability    *int     `json:"availability" validate:"omitempty,gte=0,lte=5"`
}

func (p InstructorPatch) Empty() bool {
	return p.TeachingStyle == nil && p.ClassMode == nil && p.YearsExperience == nil &&
		p.Evaluation == nil && p.PassRate == nil && p.Availability == nil
}

func (p InstructorPatch) TouchesScore() bool {
	return p.YearsExperience != nil || p.Evaluation != nil || p.PassRate != nil
}

func (p InstructorPatch) Apply(i *Instructor) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.TeachingStyle != nil {
		ls, err := ParseLearningStyle(*p.TeachingStyle)
		if err != nil {
			return err
		}
		i.TeachingStyle = ls
	}
	if p.ClassMode != nil {
		cm, err := ParseClassMode(*p.ClassMode)
		if err != nil {
			return err
		}
		i.ClassMode = cm
	}
	if p.YearsExperience != nil {
		i.YearsExperience = *p.YearsExperience
	}
	if p.Evaluation != nil {
		i.Evaluation = *p.Evaluation
	}
	if p.PassRate != nil {
		i.PassRate = *p.PassRate
	}
	if p.Availability != nil {
		i.Availability = *p.Availability
	}
	return nil
}

// InstructorFilter narrows instructor listings. Zero values match everything.
type InstructorFilter struct {
	TeachingStyle LearningStyle
	ClassMode     ClassMode
}
