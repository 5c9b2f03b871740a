package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

type StudentService interface {
	Create(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Get(ctx context.Context, name string) (*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
	Update(ctx context.Context, name string, patch domain.StudentPatch) (*domain.Student, error)
	Delete(ctx context.Context, name string) error
	Similar(ctx context.Context, name string) ([]domain.SimilarStudent, error)
}

type studentService struct {
	log      *logger.Logger
	students graph.StudentRepo
	strategy scoring.Strategy
	cache    RankingCache
}

func NewStudentService(log *logger.Logger, students graph.StudentRepo, strategy scoring.Strategy, cache RankingCache) StudentService {
	return &studentService{
		log:      log.With("service", "StudentService"),
		students: students,
		strategy: strategy,
		cache:    cache,
	}
}

func (s *studentService) Create(ctx context.Context, st *domain.Student) (*domain.Student, error) {
	if st == nil {
		return nil, fmt.Errorf("student is required: %w", apperr.ErrInvalidArgument)
	}
	st.Name = strings.TrimSpace(st.Name)
	ls, err := domain.ParseLearningStyle(string(st.LearningStyle))
	if err != nil {
		return nil, err
	}
	cm, err := domain.ParseClassMode(string(st.ClassMode))
	if err != nil {
		return nil, err
	}
	st.LearningStyle, st.ClassMode = ls, cm
	if err := st.Validate(); err != nil {
		return nil, err
	}
	st.TotalScore = totalScore(s.strategy.StudentPerformance(*st))

	created, err := s.students.Create(ctx, st)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log)
	s.log.Info("student registered", "name", created.Name, "total_score", created.TotalScore)
	return created, nil
}

func (s *studentService) Get(ctx context.Context, name string) (*domain.Student, error) {
	return s.students.Get(ctx, strings.TrimSpace(name))
}

func (s *studentService) List(ctx context.Context) ([]*domain.Student, error) {
	return s.students.List(ctx)
}

func (s *studentService) Update(ctx context.Context, name string, patch domain.StudentPatch) (*domain.Student, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("no fields to update: %w", apperr.ErrInvalidArgument)
	}
	st, err := s.students.Get(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(st); err != nil {
		return nil, err
	}
	if patch.TouchesScore() {
		st.TotalScore = totalScore(s.strategy.StudentPerformance(*st))
	}
	updated, err := s.students.Update(ctx, st)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log)
	return updated, nil
}

func (s *studentService) Delete(ctx context.Context, name string) error {
	if err := s.students.Delete(ctx, strings.TrimSpace(name)); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log)
	return nil
}

// Similar lists peers inside the tolerance bands, most similar first.
func (s *studentService) Similar(ctx context.Context, name string) ([]domain.SimilarStudent, error) {
	name = strings.TrimSpace(name)
	if _, err := s.students.Get(ctx, name); err != nil {
		return nil, err
	}
	gpaTol, repeatTol := s.strategy.PeerTolerances()
	peers, err := s.students.Peers(ctx, name, gpaTol, repeatTol)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SimilarStudent, 0, len(peers))
	for _, p := range peers {
		out = append(out, domain.SimilarStudent{
			Student:    p.Student,
			GPADiff:    p.GPADiff,
			RepeatDiff: p.RepeatDiff,
			Similarity: s.strategy.PeerSimilarity(p.GPADiff, p.RepeatDiff),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out, nil
}

// totalScore is the cached 0..100 score stored on the node.
func totalScore(unit float64) float64 {
	return math.Round(unit*10000) / 100
}
