package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

type InstructorService interface {
	Create(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error)
	Get(ctx context.Context, name string) (*domain.Instructor, error)
	List(ctx context.Context, teachingStyle, classMode string) ([]*domain.Instructor, error)
	Update(ctx context.Context, name string, patch domain.InstructorPatch) (*domain.Instructor, error)
	Delete(ctx context.Context, name string) error
	AssignCourse(ctx context.Context, name, courseCode string) error
	UnassignCourse(ctx context.Context, name, courseCode string) error
	Courses(ctx context.Context, name string) ([]*domain.Course, error)
}

type instructorService struct {
	log         *logger.Logger
	instructors graph.InstructorRepo
	relations   graph.RelationRepo
	strategy    scoring.Strategy
	cache       RankingCache
}

func NewInstructorService(
	log *logger.Logger,
	instructors graph.InstructorRepo,
	relations graph.RelationRepo,
	strategy scoring.Strategy,
	cache RankingCache,
) InstructorService {
	return &instructorService{
		log:         log.With("service", "InstructorService"),
		instructors: instructors,
		relations:   relations,
		strategy:    strategy,
		cache:       cache,
	}
}

func (s *instructorService) Create(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error) {
	if in == nil {
		return nil, fmt.Errorf("instructor is required: %w", apperr.ErrInvalidArgument)
	}
	in.Name = strings.TrimSpace(in.Name)
	ts, err := domain.ParseLearningStyle(string(in.TeachingStyle))
	if err != nil {
		return nil, err
	}
	cm, err := domain.ParseClassMode(string(in.ClassMode))
	if err != nil {
		return nil, err
	}
	in.TeachingStyle, in.ClassMode = ts, cm
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.TotalScore = totalScore(s.strategy.InstructorQuality(*in))

	created, err := s.instructors.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log)
	s.log.Info("instructor registered", "name", created.Name, "total_score", created.TotalScore)
	return created, nil
}

func (s *instructorService) Get(ctx context.Context, name string) (*domain.Instructor, error) {
	return s.instructors.Get(ctx, strings.TrimSpace(name))
}

// List filters are optional; non-empty values must name a known style or mode.
func (s *instructorService) List(ctx context.Context, teachingStyle, classMode string) ([]*domain.Instructor, error) {
	var filter domain.InstructorFilter
	if strings.TrimSpace(teachingStyle) != "" {
		ts, err := domain.ParseLearningStyle(teachingStyle)
		if err != nil {
			return nil, err
		}
		filter.TeachingStyle = ts
	}
	if strings.TrimSpace(classMode) != "" {
		cm, err := domain.ParseClassMode(classMode)
		if err != nil {
			return nil, err
		}
		filter.ClassMode = cm
	}
	return s.instructors.List(ctx, filter)
}

func (s *instructorService) Update(ctx context.Context, name string, patch domain.InstructorPatch) (*domain.Instructor, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("no fields to update: %w", apperr.ErrInvalidArgument)
	}
	in, err := s.instructors.Get(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(in); err != nil {
		return nil, err
	}
	if patch.TouchesScore() {
		in.TotalScore = totalScore(s.strategy.InstructorQuality(*in))
	}
	updated, err := s.instructors.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log)
	return updated, nil
}

func (s *instructorService) Delete(ctx context.Context, name string) error {
	if err := s.instructors.Delete(ctx, strings.TrimSpace(name)); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log)
	return nil
}

func (s *instructorService) AssignCourse(ctx context.Context, name, courseCode string) error {
	name, courseCode = strings.TrimSpace(name), strings.TrimSpace(courseCode)
	if name == "" || courseCode == "" {
		return fmt.Errorf("instructor and course are required: %w", apperr.ErrInvalidArgument)
	}
	if err := s.relations.AssignCourse(ctx, name, courseCode); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log)
	return nil
}

func (s *instructorService) UnassignCourse(ctx context.Context, name, courseCode string) error {
	if err := s.relations.UnassignCourse(ctx, strings.TrimSpace(name), strings.TrimSpace(courseCode)); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log)
	return nil
}

func (s *instructorService) Courses(ctx context.Context, name string) ([]*domain.Course, error) {
	return s.instructors.Courses(ctx, strings.TrimSpace(name))
}
