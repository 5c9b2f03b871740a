package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type InstructorRepo interface {
	Create(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error)
	Get(ctx context.Context, name string) (*domain.Instructor, error)
	List(ctx context.Context, filter domain.InstructorFilter) ([]*domain.Instructor, error)
	Update(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error)
	Delete(ctx context.Context, name string) error
	Courses(ctx context.Context, name string) ([]*domain.Course, error)
}

type instructorRepo struct {
	run Runner
	dec decoder
	log *logger.Logger
	now func() time.Time
}

func NewInstructorRepo(run Runner, quality *observability.DataQualityReporter, baseLog *logger.Logger) InstructorRepo {
	return &instructorRepo{
		run: run,
		dec: decoder{quality: quality},
		log: baseLog.With("repo", "InstructorRepo"),
		now: time.Now,
	}
}

func (r *instructorRepo) Create(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error) {
	if existing, err := r.Get(ctx, in.Name); err == nil && existing != nil {
		return nil, fmt.Errorf("instructor %q already exists: %w", in.Name, apperr.ErrConflict)
	} else if err != nil && !isNotFound(err) {
		return nil, err
	}
	params := instructorParams(in)
	params["now"] = formatTime(r.now())
	rows, err := r.run.Write(ctx, qInstructorCreate, params)
	if err != nil {
		return nil, fmt.Errorf("create instructor %q: %w", in.Name, err)
	}
	return r.first(ctx, rows, in.Name)
}

func (r *instructorRepo) Get(ctx context.Context, name string) (*domain.Instructor, error) {
	rows, err := r.run.Read(ctx, qInstructorGet, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("get instructor %q: %w", name, err)
	}
	return r.first(ctx, rows, name)
}

func (r *instructorRepo) List(ctx context.Context, filter domain.InstructorFilter) ([]*domain.Instructor, error) {
	rows, err := r.run.Read(ctx, qInstructorList, map[string]any{
		"teaching_style": string(filter.TeachingStyle),
		"class_mode":     string(filter.ClassMode),
	})
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return r.decodeAll(ctx, rows), nil
}

func (r *instructorRepo) Update(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error) {
	params := instructorParams(in)
	params["now"] = formatTime(r.now())
	rows, err := r.run.Write(ctx, qInstructorUpdate, params)
	if err != nil {
		return nil, fmt.Errorf("update instructor %q: %w", in.Name, err)
	}
	return r.first(ctx, rows, in.Name)
}

func (r *instructorRepo) Delete(ctx context.Context, name string) error {
	return deleteDetached(ctx, r.run, qInstructorDelete, "instructor", name)
}

func (r *instructorRepo) Courses(ctx context.Context, name string) ([]*domain.Course, error) {
	if _, err := r.Get(ctx, name); err != nil {
		return nil, err
	}
	rows, err := r.run.Read(ctx, qInstructorCourses, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("courses of instructor %q: %w", name, err)
	}
	out := make([]*domain.Course, 0, len(rows))
	for _, row := range rows {
		c := r.dec.course(row.Props("c"))
		out = append(out, &c)
	}
	return out, nil
}

func (r *instructorRepo) first(ctx context.Context, rows []Row, name string) (*domain.Instructor, error) {
	if len(rows) == 0 || rows[0].Props("i") == nil {
		return nil, fmt.Errorf("instructor %q: %w", name, apperr.ErrNotFound)
	}
	in := r.dec.instructor(ctx, rows[0].Props("i"))
	return &in, nil
}

func (r *instructorRepo) decodeAll(ctx context.Context, rows []Row) []*domain.Instructor {
	out := make([]*domain.Instructor, 0, len(rows))
	for _, row := range rows {
		in := r.dec.instructor(ctx, row.Props("i"))
		out = append(out, &in)
	}
	return out
}

func instructorParams(in *domain.Instructor) map[string]any {
	return map[string]any{
		"name":             in.Name,
		"teaching_style":   string(in.TeachingStyle),
		"class_mode":       string(in.ClassMode),
		"years_experience": int64(in.YearsExperience),
		"evaluation":       in.Evaluation,
		"pass_rate":        in.PassRate,
		"availability":     int64(in.Availability),
		"total_score":      in.TotalScore,
	}
}
