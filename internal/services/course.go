package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type CourseService interface {
	Create(ctx context.Context, c *domain.Course) (*domain.Course, error)
	Get(ctx context.Context, code string) (*domain.Course, error)
	List(ctx context.Context, department string) ([]*domain.Course, error)
	// Update never changes the course code.
	Update(ctx context.Context, code string, patch domain.CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, code string) error
}

type courseService struct {
	log     *logger.Logger
	courses graph.CourseRepo
	cache   RankingCache
}

func NewCourseService(log *logger.Logger, courses graph.CourseRepo, cache RankingCache) CourseService {
	return &courseService{
		log:     log.With("service", "CourseService"),
		courses: courses,
		cache:   cache,
	}
}

func (s *courseService) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	if c == nil {
		return nil, fmt.Errorf("course is required: %w", apperr.ErrInvalidArgument)
	}
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	c.Department = strings.TrimSpace(c.Department)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	created, err := s.courses.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log)
	return created, nil
}

func (s *courseService) Get(ctx context.Context, code string) (*domain.Course, error) {
	return s.courses.Get(ctx, strings.TrimSpace(code))
}

func (s *courseService) List(ctx context.Context, department string) ([]*domain.Course, error) {
	return s.courses.List(ctx, department)
}

func (s *courseService) Update(ctx context.Context, code string, patch domain.CoursePatch) (*domain.Course, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("no fields to update: %w", apperr.ErrInvalidArgument)
	}
	c, err := s.courses.Get(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(c); err != nil {
		return nil, err
	}
	updated, err := s.courses.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log)
	return updated, nil
}

func (s *courseService) Delete(ctx context.Context, code string) error {
	if err := s.courses.Delete(ctx, strings.TrimSpace(code)); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log)
	return nil
}
