package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScoreBreakdown holds the raw component scores behind a recommendation.
// All values are in [0,1].
type ScoreBreakdown struct {
	Style              float64 `json:"style_compatibility"`
	LearningStyle      float64 `json:"learning_style_compatibility"`
	ClassMode          float64 `json:"class_mode_compatibility"`
	Affinity           float64 `json:"affinity"`
	Confidence         float64 `json:"confidence"`
	Peers              int     `json:"peers"`
	PeersPassed        int     `json:"peers_passed"`
	AffinityDegraded   bool    `json:"affinity_degraded,omitempty"`
	InstructorQuality  float64 `json:"instructor_quality"`
	StudentPerformance float64 `json:"student_performance"`
	Blended            float64 `json:"blended"`
}

// Band labels a display score.
type Band string

const (
	BandUpper  Band = "upper"
	BandMiddle Band = "middle"
	BandLower  Band = "lower"
)

type Recommendation struct {
	Instructor Instructor     `json:"instructor"`
	Score      float64        `json:"score"`
	Band       Band           `json:"band"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	ComputedAt time.Time      `json:"computed_at"`
}

// History page sizes. A request for more than MaxHistoryLimit runs, or for
// 0, gets MaxHistoryLimit.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// RecommendationRun is the audit row written after each successful ranking.
type RecommendationRun struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentName     string         `gorm:"column:student_name;not null;index" json:"student"`
	CourseCode      string         `gorm:"column:course_code;index" json:"course,omitempty"`
	CandidateCount  int            `gorm:"column:candidate_count;not null;default:0" json:"candidate_count"`
	DegradedCount   int            `gorm:"column:degraded_count;not null;default:0" json:"degraded_count"`
	TopInstructor   string         `gorm:"column:top_instructor" json:"top_instructor,omitempty"`
	TopScore        float64        `gorm:"column:top_score" json:"top_score"`
	StrategyVersion string         `gorm:"column:strategy_version;not null" json:"strategy_version"`
	Results         datatypes.JSON `gorm:"column:results" json:"results"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
}

func (RecommendationRun) TableName() string { return "recommendation_run" }
