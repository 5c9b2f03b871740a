package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type RecommendationRunRepo interface {
	Create(dbc dbctx.Context, run *domain.RecommendationRun) (*domain.RecommendationRun, error)
	ListByStudent(dbc dbctx.Context, student string, limit int) ([]*domain.RecommendationRun, error)
}

type recommendationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRunRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRunRepo {
	return &recommendationRunRepo{
		db:  db,
		log: baseLog.With("repo", "RecommendationRunRepo"),
	}
}

func (r *recommendationRunRepo) Create(dbc dbctx.Context, run *domain.RecommendationRun) (*domain.RecommendationRun, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := dbc.DB(r.db).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// ListByStudent returns the newest runs first, at most
// domain.MaxHistoryLimit of them.
func (r *recommendationRunRepo) ListByStudent(dbc dbctx.Context, student string, limit int) ([]*domain.RecommendationRun, error) {
	if limit <= 0 || limit > domain.MaxHistoryLimit {
		limit = domain.MaxHistoryLimit
	}
	var out []*domain.RecommendationRun
	if err := dbc.DB(r.db).
		Where("student_name = ?", student).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
