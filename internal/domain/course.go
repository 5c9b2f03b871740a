package domain

import "time"

// PassingGrade is the minimum grade recorded on a PASSED_WITH edge.
const PassingGrade = 61.0

type Course struct {
	Code       string `json:"code" validate:"required,max=32"`
	Name       string `json:"name" validate:"required,max=200"`
	Department string `json:"department" validate:"max=120"`
	Credits    int    `json:"credits" validate:"gte=0"`
}

func (c *Course) Validate() error { return validateStruct(c) }

type CoursePatch struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Department *string `json:"department" validate:"omitempty,max=120"`
	Credits    *int    `json:"credits" validate:"omitempty,gte=0"`
}

func (p CoursePatch) Empty() bool {
	return p.Name == nil && p.Department == nil && p.Credits == nil
}

func (p CoursePatch) Apply(c *Course) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Department != nil {
		c.Department = *p.Department
	}
	if p.Credits != nil {
		c.Credits = *p.Credits
	}
	return nil
}

// PassRecord says a student passed a course taught by an instructor.
type PassRecord struct {
	StudentName    string     `json:"student" validate:"required"`
	InstructorName string     `json:"instructor" validate:"required"`
	CourseCode     string     `json:"course" validate:"required"`
	Grade          *float64   `json:"grade,omitempty" validate:"omitempty,gte=0,lte=100"`
	PassedAt       *time.Time `json:"passed_at,omitempty"`
}

func (r *PassRecord) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Grade != nil && *r.Grade < PassingGrade {
		return invalidf("grade %.1f is below the passing grade %.0f", *r.Grade, PassingGrade)
	}
	return nil
}
