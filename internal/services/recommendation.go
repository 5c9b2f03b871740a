package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/data/repos"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

type RecommendationService interface {
	// Recommend ranks candidate instructors for a student, best first. An
	// empty courseCode ranks every instructor.
	Recommend(ctx context.Context, student, courseCode string) ([]domain.Recommendation, error)
	RecordCoursePassed(ctx context.Context, rec domain.PassRecord) (bool, error)
	History(ctx context.Context, student string, limit int) ([]*domain.RecommendationRun, error)
}

type RecommendationDeps struct {
	Students  graph.StudentRepo
	Courses   graph.CourseRepo
	Relations graph.RelationRepo
	Affinity  PeerAffinityEstimator
	Strategy  scoring.Strategy
	// Optional.
	Cache   RankingCache
	Runs    repos.RecommendationRunRepo
	Metrics *observability.Metrics
	Tracer  trace.Tracer
}

type recommendationService struct {
	log       *logger.Logger
	students  graph.StudentRepo
	courses   graph.CourseRepo
	relations graph.RelationRepo
	affinity  PeerAffinityEstimator
	strategy  scoring.Strategy
	cache     RankingCache
	runs      repos.RecommendationRunRepo
	metrics   *observability.Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

func NewRecommendationService(log *logger.Logger, deps RecommendationDeps) RecommendationService {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = observability.Tracer()
	}
	return &recommendationService{
		log:       log.With("service", "RecommendationService"),
		students:  deps.Students,
		courses:   deps.Courses,
		relations: deps.Relations,
		affinity:  deps.Affinity,
		strategy:  deps.Strategy,
		cache:     deps.Cache,
		runs:      deps.Runs,
		metrics:   deps.Metrics,
		tracer:    tracer,
		now:       time.Now,
	}
}

func (s *recommendationService) Recommend(ctx context.Context, studentName, courseCode string) (out []domain.Recommendation, err error) {
	studentName = strings.TrimSpace(studentName)
	courseCode = strings.TrimSpace(courseCode)
	ctx, span := s.tracer.Start(ctx, "RecommendationService.Recommend", trace.WithAttributes(
		attribute.String("student", studentName),
		attribute.String("course", courseCode),
	))
	start := s.now()
	defer func() {
		status := "ok"
		if err != nil {
			status = errorStatus(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		}
		s.metrics.ObserveRecommendation(status, len(out), time.Since(start))
		span.End()
	}()

	if studentName == "" {
		return nil, fmt.Errorf("student is required: %w", apperr.ErrInvalidArgument)
	}
	gen, cacheable := s.generation(ctx)
	student, err := s.students.Get(ctx, studentName)
	if err != nil {
		return nil, err
	}
	if courseCode != "" {
		if _, err := s.courses.Get(ctx, courseCode); err != nil {
			return nil, err
		}
	}

	// A hit does not refresh the RECOMMENDED edges; their computed_at is the
	// time of the scoring pass that filled the cache entry.
	if cached, ok := s.cached(ctx, cacheable, gen, studentName, courseCode); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	candidates, err := s.relations.Candidates(ctx, courseCode)
	if err != nil {
		return nil, fmt.Errorf("enumerate candidates: %w", err)
	}
	if len(candidates) == 0 {
		if courseCode != "" {
			return nil, fmt.Errorf("course %q has no assigned instructors: %w", courseCode, apperr.ErrNoCandidates)
		}
		return []domain.Recommendation{}, nil
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	computedAt := s.now().UTC()
	performance := s.strategy.StudentPerformance(*student)
	out = make([]domain.Recommendation, 0, len(candidates))
	degraded := 0
	for _, in := range candidates {
		c := scoring.Components{
			Style:       s.strategy.StyleCompatibility(*student, *in),
			Affinity:    s.affinity.Estimate(ctx, student.Name, in.Name),
			Quality:     s.strategy.InstructorQuality(*in),
			Performance: performance,
		}
		if c.Affinity.Degraded {
			degraded++
		}
		blended := s.strategy.Blend(c)
		score := s.strategy.Display(blended)

		if werr := s.relations.UpsertRecommended(ctx, graph.RecommendedEdge{
			Student:    student.Name,
			Instructor: in.Name,
			Score:      score,
			Confidence: c.Affinity.Confidence,
			Version:    s.strategy.Version(),
			ComputedAt: computedAt,
		}); werr != nil {
			s.log.Ctx(ctx).Warn("RECOMMENDED edge not written", "student", student.Name, "instructor", in.Name, "error", werr)
		}

		s.metrics.ObserveFinalScore(score)
		out = append(out, domain.Recommendation{
			Instructor: *in,
			Score:      score,
			Band:       scoring.BandOf(score),
			Breakdown:  scoring.Breakdown(c, blended),
			ComputedAt: computedAt,
		})
	}

	// Stable: equal scores keep candidate (name) order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	span.SetAttributes(attribute.Int("affinity_degraded", degraded))

	// Neutral fallbacks only hold for this request.
	if degraded == 0 {
		s.store(ctx, cacheable, gen, studentName, courseCode, out)
	}
	s.audit(ctx, studentName, courseCode, out, degraded)
	return out, nil
}

// generation is read before any graph access. ok is false when there is no
// cache or the generation could not be read.
func (s *recommendationService) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.metrics.IncCache("error")
		s.log.Ctx(ctx).Warn("ranking cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (s *recommendationService) cached(ctx context.Context, cacheable bool, gen int64, student, course string) ([]domain.Recommendation, bool) {
	if !cacheable {
		return nil, false
	}
	recs, ok, err := s.cache.Get(ctx, gen, student, course)
	switch {
	case err != nil:
		s.metrics.IncCache("error")
		s.log.Warn("ranking cache read failed", "student", student, "course", course, "error", err)
		return nil, false
	case !ok:
		s.metrics.IncCache("miss")
		return nil, false
	default:
		s.metrics.IncCache("hit")
		return recs, true
	}
}

func (s *recommendationService) store(ctx context.Context, cacheable bool, gen int64, student, course string, recs []domain.Recommendation) {
	if !cacheable {
		return
	}
	if err := s.cache.Set(ctx, gen, student, course, recs); err != nil {
		s.log.Warn("ranking cache write failed", "student", student, "course", course, "error", err)
	}
}

func (s *recommendationService) audit(ctx context.Context, student, course string, recs []domain.Recommendation, degraded int) {
	if s.runs == nil {
		return
	}
	results, err := json.Marshal(recs)
	if err != nil {
		s.log.Warn("audit encode failed", "student", student, "error", err)
		return
	}
	run := &domain.RecommendationRun{
		StudentName:     student,
		CourseCode:      course,
		CandidateCount:  len(recs),
		DegradedCount:   degraded,
		StrategyVersion: s.strategy.Version(),
		Results:         datatypes.JSON(results),
		CreatedAt:       s.now().UTC(),
	}
	if len(recs) > 0 {
		run.TopInstructor = recs[0].Instructor.Name
		run.TopScore = recs[0].Score
	}
	if _, err := s.runs.Create(dbctx.Context{Ctx: ctx}, run); err != nil {
		s.log.Warn("audit write failed", "student", student, "error", err)
	}
}

func (s *recommendationService) RecordCoursePassed(ctx context.Context, rec domain.PassRecord) (bool, error) {
	rec.StudentName = strings.TrimSpace(rec.StudentName)
	rec.InstructorName = strings.TrimSpace(rec.InstructorName)
	rec.CourseCode = strings.TrimSpace(rec.CourseCode)
	if err := rec.Validate(); err != nil {
		return false, err
	}
	ok, err := s.relations.RecordPassed(ctx, rec)
	if err != nil {
		return false, err
	}
	if ok {
		invalidate(ctx, s.cache, s.log)
	}
	return ok, nil
}

func (s *recommendationService) History(ctx context.Context, student string, limit int) ([]*domain.RecommendationRun, error) {
	student = strings.TrimSpace(student)
	if _, err := s.students.Get(ctx, student); err != nil {
		return nil, err
	}
	if s.runs == nil {
		return []*domain.RecommendationRun{}, nil
	}
	runs, err := s.runs.ListByStudent(dbctx.Context{Ctx: ctx}, student, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendation runs: %w", err)
	}
	return runs, nil
}

func errorStatus(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, apperr.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, apperr.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
