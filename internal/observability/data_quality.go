package observability

import (
	"context"
	"strings"

	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

// DataQualityIssue is one recovered problem found in stored data.
type DataQualityIssue struct {
	Entity string
	Key    string
	Field  string
	Issue  string
	Raw    string
}

// DataQualityReporter logs recovered data problems and counts them. It is
// safe to use as a zero value.
type DataQualityReporter struct {
	Log     *logger.Logger
	Metrics *Metrics
}

func NewDataQualityReporter(log *logger.Logger, m *Metrics) *DataQualityReporter {
	if log != nil {
		log = log.With("component", "DataQuality")
	}
	return &DataQualityReporter{Log: log, Metrics: m}
}

// Report never fails; stage names where the issue was found (e.g. "graph.student").
func (r *DataQualityReporter) Report(ctx context.Context, stage string, issues ...DataQualityIssue) {
	if r == nil || len(issues) == 0 {
		return
	}
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	for _, is := range issues {
		r.Metrics.IncDataQuality(stage, is.Issue, is.Field)
		if r.Log == nil {
			continue
		}
		r.Log.Ctx(ctx).Warn("data quality issue detected",
			"stage", stage,
			"entity", is.Entity,
			"key", is.Key,
			"field", is.Field,
			"issue", is.Issue,
			"raw", is.Raw,
		)
	}
}
