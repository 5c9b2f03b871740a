package graph

import (
	"context"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/observability"
)

const issueCoercedEnum = "coerced_enum"

// decoder turns node property maps into domain records. Unknown enum values
// are coerced to mixed and reported, never rejected.
type decoder struct {
	quality *observability.DataQualityReporter
}

func (d decoder) student(ctx context.Context, p Props) domain.Student {
	name := p.String("name")
	var issues []observability.DataQualityIssue
	ls, ok := domain.CoerceLearningStyle(p.String("learning_style"))
	if !ok {
		issues = append(issues, coercion("Student", name, "learning_style", p.String("learning_style")))
	}
	cm, ok := domain.CoerceClassMode(p.String("class_mode"))
	if !ok {
		issues = append(issues, coercion("Student", name, "class_mode", p.String("class_mode")))
	}
	d.quality.Report(ctx, "graph.student", issues...)

	gpa, _ := p.Float("gpa")
	repeats, _ := p.Int("repeat_count")
	total, _ := p.Float("total_score")
	return domain.Student{
		Name:          name,
		LearningStyle: ls,
		ClassMode:     cm,
		GPA:           gpa,
		RepeatCount:   repeats,
		TotalScore:    total,
		RegisteredAt:  p.Time("registered_at"),
		UpdatedAt:     p.Time("updated_at"),
	}
}

func (d decoder) instructor(ctx context.Context, p Props) domain.Instructor {
	name := p.String("name")
	var issues []observability.DataQualityIssue
	ts, ok := domain.CoerceLearningStyle(p.String("teaching_style"))
	if !ok {
		issues = append(issues, coercion("Instructor", name, "teaching_style", p.String("teaching_style")))
	}
	cm, ok := domain.CoerceClassMode(p.String("class_mode"))
	if !ok {
		issues = append(issues, coercion("Instructor", name, "class_mode", p.String("class_mode")))
	}
	d.quality.Report(ctx, "graph.instructor", issues...)

	years, _ := p.Int("years_experience")
	eval, _ := p.Float("evaluation")
	passRate, _ := p.Float("pass_rate")
	avail, _ := p.Int("availability")
	total, _ := p.Float("total_score")
	return domain.Instructor{
		Name:            name,
		TeachingStyle:   ts,
		ClassMode:       cm,
		YearsExperience: years,
		Evaluation:      eval,
		PassRate:        passRate,
		Availability:    avail,
		TotalScore:      total,
		RegisteredAt:    p.Time("registered_at"),
		UpdatedAt:       p.Time("updated_at"),
	}
}

func (decoder) course(p Props) domain.Course {
	credits, _ := p.Int("credits")
	return domain.Course{
		Code:       p.String("code"),
		Name:       p.String("name"),
		Department: p.String("department"),
		Credits:    credits,
	}
}

func coercion(entity, key, field, raw string) observability.DataQualityIssue {
	return observability.DataQualityIssue{Entity: entity, Key: key, Field: field, Issue: issueCoercedEnum, Raw: raw}
}
