package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, c *domain.Course) (*domain.Course, error)
	Get(ctx context.Context, code string) (*domain.Course, error)
	List(ctx context.Context, department string) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) (*domain.Course, error)
	Delete(ctx context.Context, code string) error
}

type courseRepo struct {
	run Runner
	dec decoder
	log *logger.Logger
}

func NewCourseRepo(run Runner, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{
		run: run,
		log: baseLog.With("repo", "CourseRepo"),
	}
}

func (r *courseRepo) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	if existing, err := r.Get(ctx, c.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("course %q already exists: %w", c.Code, apperr.ErrConflict)
	} else if err != nil && !isNotFound(err) {
		return nil, err
	}
	rows, err := r.run.Write(ctx, qCourseCreate, courseParams(c))
	if err != nil {
		return nil, fmt.Errorf("create course %q: %w", c.Code, err)
	}
	return r.first(rows, c.Code)
}

func (r *courseRepo) Get(ctx context.Context, code string) (*domain.Course, error) {
	rows, err := r.run.Read(ctx, qCourseGet, map[string]any{"code": code})
	if err != nil {
		return nil, fmt.Errorf("get course %q: %w", code, err)
	}
	return r.first(rows, code)
}

func (r *courseRepo) List(ctx context.Context, department string) ([]*domain.Course, error) {
	rows, err := r.run.Read(ctx, qCourseList, map[string]any{"department": strings.TrimSpace(department)})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]*domain.Course, 0, len(rows))
	for _, row := range rows {
		c := r.dec.course(row.Props("c"))
		out = append(out, &c)
	}
	return out, nil
}

func (r *courseRepo) Update(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	rows, err := r.run.Write(ctx, qCourseUpdate, courseParams(c))
	if err != nil {
		return nil, fmt.Errorf("update course %q: %w", c.Code, err)
	}
	return r.first(rows, c.Code)
}

func (r *courseRepo) Delete(ctx context.Context, code string) error {
	return deleteDetached(ctx, r.run, qCourseDelete, "course", code)
}

func (r *courseRepo) first(rows []Row, code string) (*domain.Course, error) {
	if len(rows) == 0 || rows[0].Props("c") == nil {
		return nil, fmt.Errorf("course %q: %w", code, apperr.ErrNotFound)
	}
	c := r.dec.course(rows[0].Props("c"))
	return &c, nil
}

func courseParams(c *domain.Course) map[string]any {
	return map[string]any{
		"code":       c.Code,
		"name":       c.Name,
		"department": c.Department,
		"credits":    int64(c.Credits),
	}
}
