package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/pkg/pointers"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

type recFixture struct {
	g       *memGraph
	cache   *memCache
	runs    *memRuns
	metrics *observability.Metrics
	svc     RecommendationService
}

func newRecFixture(t *testing.T, withCache bool) *recFixture {
	t.Helper()
	g := newMemGraph()
	g.addStudent(domain.Student{
		Name: "ana", LearningStyle: domain.LearningTheoretical, ClassMode: domain.ClassWithTechnology,
		GPA: 82, RepeatCount: 0,
	})
	g.addInstructor(domain.Instructor{
		Name: "Bruno", TeachingStyle: domain.LearningTheoretical, ClassMode: domain.ClassWithTechnology,
		YearsExperience: 12, Evaluation: 4.6, PassRate: 88, Availability: 4,
	})
	g.addInstructor(domain.Instructor{
		Name: "Alma", TeachingStyle: domain.LearningPractical, ClassMode: domain.ClassWithoutTechnology,
		YearsExperience: 2, Evaluation: 2.9, PassRate: 45, Availability: 2,
	})
	g.addInstructor(domain.Instructor{
		Name: "Ciro", TeachingStyle: domain.LearningMixed, ClassMode: domain.ClassMixed,
		YearsExperience: 6, Evaluation: 3.8, PassRate: 70, Availability: 3,
	})
	g.addCourse(domain.Course{Code: "MAT101", Name: "Calculus"}, "Alma", "Bruno")
	g.addCourse(domain.Course{Code: "HIS200", Name: "History"})
	g.outcomes["Bruno"] = graph.PeerOutcome{Peers: 10, Passed: 9}
	g.outcomes["Alma"] = graph.PeerOutcome{Peers: 10, Passed: 2}

	f := &recFixture{g: g, runs: &memRuns{}, metrics: observability.NewMetrics()}
	strategy := testStrategy(t)
	log := logger.Nop()
	deps := RecommendationDeps{
		Students:  studentRepo{g},
		Courses:   courseRepo{g},
		Relations: relationRepo{g},
		Affinity:  NewPeerAffinityEstimator(log, relationRepo{g}, strategy, f.metrics),
		Strategy:  strategy,
		Runs:      f.runs,
		Metrics:   f.metrics,
	}
	if withCache {
		f.cache = newMemCache()
		deps.Cache = f.cache
	}
	f.svc = NewRecommendationService(log, deps)
	return f
}

func TestRecommendRanksCourseCandidates(t *testing.T) {
	f := newRecFixture(t, false)
	recs, err := f.svc.Recommend(context.Background(), "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "Bruno", recs[0].Instructor.Name)
	require.Equal(t, "Alma", recs[1].Instructor.Name)
	require.Greater(t, recs[0].Score, recs[1].Score)
	for _, r := range recs {
		require.Equal(t, scoring.BandOf(r.Score), r.Band)
	}

	for _, r := range recs {
		require.GreaterOrEqual(t, r.Score, 0.0)
		require.Less(t, r.Score, 100.0)
		require.False(t, r.Breakdown.AffinityDegraded)
		require.Equal(t, 10, r.Breakdown.Peers)
	}
	require.Equal(t, 1.0, recs[0].Breakdown.LearningStyle)
	require.Equal(t, 9, recs[0].Breakdown.PeersPassed)

	require.Len(t, f.g.upserts, 2)
	for _, e := range f.g.upserts {
		require.Equal(t, "ana", e.Student)
		require.Equal(t, "weighted-v1", e.Version)
		require.False(t, e.ComputedAt.IsZero())
	}
}

func TestRecommendWithoutCourseRanksEveryInstructor(t *testing.T) {
	f := newRecFixture(t, false)
	recs, err := f.svc.Recommend(context.Background(), "ana", "")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		require.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestRecommendEmptyGraphReturnsEmptyList(t *testing.T) {
	f := newRecFixture(t, false)
	f.g.instructors = map[string]*domain.Instructor{}
	recs, err := f.svc.Recommend(context.Background(), "ana", "")
	require.NoError(t, err)
	require.NotNil(t, recs)
	require.Empty(t, recs)
}

func TestRecommendErrors(t *testing.T) {
	f := newRecFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Recommend(ctx, "  ", "")
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.svc.Recommend(ctx, "nobody", "")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Recommend(ctx, "ana", "NOPE999")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Recommend(ctx, "ana", "HIS200")
	require.ErrorIs(t, err, apperr.ErrNoCandidates)

	f.g.candErr = fmt.Errorf("boom: %w", apperr.ErrStoreUnavailable)
	_, err = f.svc.Recommend(ctx, "ana", "MAT101")
	require.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	require.Empty(t, f.g.upserts)
	require.Empty(t, f.runs.runs)
}

func TestRecommendTiesKeepNameOrder(t *testing.T) {
	f := newRecFixture(t, false)
	twin := *f.g.instructors["Ciro"]
	twin.Name = "Dora"
	f.g.addInstructor(twin)
	f.g.outcomes["Ciro"] = graph.PeerOutcome{}
	f.g.outcomes["Dora"] = graph.PeerOutcome{}

	recs, err := f.svc.Recommend(context.Background(), "ana", "")
	require.NoError(t, err)
	var order []string
	for _, r := range recs {
		if r.Instructor.Name == "Ciro" || r.Instructor.Name == "Dora" {
			order = append(order, r.Instructor.Name)
		}
	}
	require.Equal(t, []string{"Ciro", "Dora"}, order)
}

func TestRecommendDegradedAffinityStillRanks(t *testing.T) {
	f := newRecFixture(t, false)
	f.g.outcomeErr["Alma"] = fmt.Errorf("dial: %w", apperr.ErrStoreUnavailable)

	recs, err := f.svc.Recommend(context.Background(), "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	var alma domain.Recommendation
	for _, r := range recs {
		if r.Instructor.Name == "Alma" {
			alma = r
		}
	}
	require.True(t, alma.Breakdown.AffinityDegraded)
	require.Equal(t, 0.5, alma.Breakdown.Affinity)
	require.Equal(t, 0.0, alma.Breakdown.Confidence)

	require.Len(t, f.runs.runs, 1)
	require.Equal(t, 1, f.runs.runs[0].DegradedCount)
	n, err := testutil.GatherAndCount(f.metrics.Registry(), "tutormatch_affinity_fallbacks_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRecommendEdgeWriteFailureIsNotFatal(t *testing.T) {
	f := newRecFixture(t, false)
	f.g.upsertErr = errors.New("write rejected")
	recs, err := f.svc.Recommend(context.Background(), "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestRecommendWritesAuditRun(t *testing.T) {
	f := newRecFixture(t, false)
	recs, err := f.svc.Recommend(context.Background(), "ana", "MAT101")
	require.NoError(t, err)

	require.Len(t, f.runs.runs, 1)
	run := f.runs.runs[0]
	require.Equal(t, "ana", run.StudentName)
	require.Equal(t, "MAT101", run.CourseCode)
	require.Equal(t, 2, run.CandidateCount)
	require.Equal(t, recs[0].Instructor.Name, run.TopInstructor)
	require.Equal(t, recs[0].Score, run.TopScore)
	require.Equal(t, "weighted-v1", run.StrategyVersion)
	require.Contains(t, string(run.Results), `"Bruno"`)
}

func TestRecommendUsesCache(t *testing.T) {
	f := newRecFixture(t, true)
	ctx := context.Background()

	first, err := f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, f.g.upserts, 2)

	second, err := f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, f.g.upserts, 2, "cache hit must not rescore")
	require.Equal(t, 2, f.cache.gets)

	ok, err := f.svc.RecordCoursePassed(ctx, domain.PassRecord{
		StudentName: "ana", InstructorName: "Bruno", CourseCode: "MAT101",
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, f.cache.invalidations)

	_, err = f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, f.g.upserts, 4)
}

func TestRecommendDoesNotCacheAcrossConcurrentWrite(t *testing.T) {
	f := newRecFixture(t, true)
	ctx := context.Background()

	// A graph write lands while the first ranking is being scored.
	f.g.onUpsert = func() {
		f.g.onUpsert = nil
		require.NoError(t, f.cache.Invalidate(ctx))
	}
	_, err := f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, f.g.upserts, 2)

	_, err = f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, f.g.upserts, 4, "ranking scored before the write must not be served")

	_, err = f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.Len(t, f.g.upserts, 4)
}

func TestRecommendDegradedRankingIsNotCached(t *testing.T) {
	f := newRecFixture(t, true)
	ctx := context.Background()
	f.g.outcomeErr["Bruno"] = fmt.Errorf("dial: %w", apperr.ErrStoreUnavailable)

	recs, err := f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	require.True(t, breakdownFor(t, recs, "Bruno").AffinityDegraded)

	delete(f.g.outcomeErr, "Bruno")
	recs, err = f.svc.Recommend(ctx, "ana", "MAT101")
	require.NoError(t, err)
	bruno := breakdownFor(t, recs, "Bruno")
	require.False(t, bruno.AffinityDegraded)
	require.Equal(t, 10, bruno.Peers)
	require.NotEqual(t, 0.5, bruno.Affinity)
}

func breakdownFor(t *testing.T, recs []domain.Recommendation, instructor string) domain.ScoreBreakdown {
	t.Helper()
	for _, r := range recs {
		if r.Instructor.Name == instructor {
			return r.Breakdown
		}
	}
	t.Fatalf("no recommendation for %s", instructor)
	return domain.ScoreBreakdown{}
}

func TestRecordCoursePassed(t *testing.T) {
	f := newRecFixture(t, true)
	ctx := context.Background()

	ok, err := f.svc.RecordCoursePassed(ctx, domain.PassRecord{
		StudentName: " ana ", InstructorName: "Bruno", CourseCode: "MAT101", Grade: pointers.Ptr(float64(90)),
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, f.g.passes, 1)
	require.Equal(t, "ana", f.g.passes[0].StudentName)

	ok, err = f.svc.RecordCoursePassed(ctx, domain.PassRecord{
		StudentName: "ana", InstructorName: "Nadie", CourseCode: "MAT101",
	})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, f.cache.invalidations)

	_, err = f.svc.RecordCoursePassed(ctx, domain.PassRecord{StudentName: "ana", CourseCode: "MAT101"})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.svc.RecordCoursePassed(ctx, domain.PassRecord{
		StudentName: "ana", InstructorName: "Bruno", CourseCode: "MAT101", Grade: pointers.Ptr(float64(40)),
	})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	require.Len(t, f.g.passes, 1)
}

func TestHistory(t *testing.T) {
	f := newRecFixture(t, false)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Recommend(ctx, "ana", "")
		require.NoError(t, err)
	}
	runs, err := f.svc.History(ctx, "ana", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	_, err = f.svc.History(ctx, "nobody", 2)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
