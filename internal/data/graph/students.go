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

type StudentRepo interface {
	Create(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Get(ctx context.Context, name string) (*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
	Update(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, name string) error
	// Peers returns the students inside both tolerance bands that share the
	// student's learning style and class mode. diffs are peer minus student.
	Peers(ctx context.Context, name string, gpaTolerance float64, repeatTolerance int) ([]PeerMatch, error)
}

type PeerMatch struct {
	Student    domain.Student
	GPADiff    float64
	RepeatDiff int
}

type studentRepo struct {
	run Runner
	dec decoder
	log *logger.Logger
	now func() time.Time
}

func NewStudentRepo(run Runner, quality *observability.DataQualityReporter, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{
		run: run,
		dec: decoder{quality: quality},
		log: baseLog.With("repo", "StudentRepo"),
		now: time.Now,
	}
}

func (r *studentRepo) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	if existing, err := r.Get(ctx, s.Name); err == nil && existing != nil {
		return nil, fmt.Errorf("student %q already exists: %w", s.Name, apperr.ErrConflict)
	} else if err != nil && !isNotFound(err) {
		return nil, err
	}
	params := studentParams(s)
	params["now"] = formatTime(r.now())
	rows, err := r.run.Write(ctx, qStudentCreate, params)
	if err != nil {
		return nil, fmt.Errorf("create student %q: %w", s.Name, err)
	}
	return r.first(ctx, rows, s.Name)
}

func (r *studentRepo) Get(ctx context.Context, name string) (*domain.Student, error) {
	rows, err := r.run.Read(ctx, qStudentGet, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("get student %q: %w", name, err)
	}
	return r.first(ctx, rows, name)
}

func (r *studentRepo) List(ctx context.Context) ([]*domain.Student, error) {
	rows, err := r.run.Read(ctx, qStudentList, nil)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	out := make([]*domain.Student, 0, len(rows))
	for _, row := range rows {
		s := r.dec.student(ctx, row.Props("s"))
		out = append(out, &s)
	}
	return out, nil
}

func (r *studentRepo) Update(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	params := studentParams(s)
	params["now"] = formatTime(r.now())
	rows, err := r.run.Write(ctx, qStudentUpdate, params)
	if err != nil {
		return nil, fmt.Errorf("update student %q: %w", s.Name, err)
	}
	return r.first(ctx, rows, s.Name)
}

func (r *studentRepo) Delete(ctx context.Context, name string) error {
	return deleteDetached(ctx, r.run, qStudentDelete, "student", name)
}

func (r *studentRepo) Peers(ctx context.Context, name string, gpaTolerance float64, repeatTolerance int) ([]PeerMatch, error) {
	rows, err := r.run.Read(ctx, qStudentSimilar, map[string]any{
		"name":             name,
		"gpa_tolerance":    gpaTolerance,
		"repeat_tolerance": int64(repeatTolerance),
	})
	if err != nil {
		return nil, fmt.Errorf("similar students for %q: %w", name, err)
	}
	out := make([]PeerMatch, 0, len(rows))
	for _, row := range rows {
		gpaDiff, _ := row.Float("gpa_diff")
		repeatDiff, _ := row.Int("repeat_diff")
		out = append(out, PeerMatch{
			Student:    r.dec.student(ctx, row.Props("peer")),
			GPADiff:    gpaDiff,
			RepeatDiff: repeatDiff,
		})
	}
	return out, nil
}

func (r *studentRepo) first(ctx context.Context, rows []Row, name string) (*domain.Student, error) {
	if len(rows) == 0 || rows[0].Props("s") == nil {
		return nil, fmt.Errorf("student %q: %w", name, apperr.ErrNotFound)
	}
	s := r.dec.student(ctx, rows[0].Props("s"))
	return &s, nil
}

func studentParams(s *domain.Student) map[string]any {
	return map[string]any{
		"name":           s.Name,
		"learning_style": string(s.LearningStyle),
		"class_mode":     string(s.ClassMode),
		"gpa":            s.GPA,
		"repeat_count":   int64(s.RepeatCount),
		"total_score":    s.TotalScore,
	}
}
