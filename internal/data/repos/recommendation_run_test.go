package repos

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/tutormatch-backend/internal/data/repos/testutil"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/pkg/dbctx"
)

func TestRecommendationRunRepoCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecommendationRunRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, top := range []string{"first", "second", "third"} {
		run := &domain.RecommendationRun{
			StudentName:     "ana",
			CandidateCount:  3,
			TopInstructor:   top,
			TopScore:        80 + float64(i),
			StrategyVersion: "weighted-v1",
			Results:         datatypes.JSON([]byte(`[]`)),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		created, err := repo.Create(dbc, run)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Fatalf("Create should assign an id")
		}
	}
	if _, err := repo.Create(dbc, &domain.RecommendationRun{StudentName: "bea", StrategyVersion: "weighted-v1"}); err != nil {
		t.Fatalf("Create other student: %v", err)
	}

	runs, err := repo.ListByStudent(dbc, "ana", 2)
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: want=2 got=%d", len(runs))
	}
	if runs[0].TopInstructor != "third" || runs[1].TopInstructor != "second" {
		t.Fatalf("want newest first, got %q then %q", runs[0].TopInstructor, runs[1].TopInstructor)
	}
}

func TestRecommendationRunRepoListClampsToMax(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewRecommendationRunRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	const total = domain.DefaultHistoryLimit + 5
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < total; i++ {
		if _, err := repo.Create(dbc, &domain.RecommendationRun{
			StudentName:     "cleo",
			StrategyVersion: "weighted-v1",
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	for _, limit := range []int{0, domain.MaxHistoryLimit + 100} {
		runs, err := repo.ListByStudent(dbc, "cleo", limit)
		if err != nil {
			t.Fatalf("ListByStudent(%d): %v", limit, err)
		}
		if len(runs) != total {
			t.Fatalf("limit=%d: want=%d got=%d", limit, total, len(runs))
		}
	}
}
