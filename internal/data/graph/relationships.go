package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/pkg/pointers"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

// RecommendedEdge is the cached score on Student-[:RECOMMENDED]->Instructor.
type RecommendedEdge struct {
	Student    string
	Instructor string
	Score      float64
	Confidence float64
	Version    string
	ComputedAt time.Time
}

// PeerOutcome is the result of the peer similarity and outcome join.
type PeerOutcome struct {
	Peers  int
	Passed int
}

type RelationRepo interface {
	// Candidates lists instructors teaching courseCode, or every instructor
	// when courseCode is empty. Ordered by name.
	Candidates(ctx context.Context, courseCode string) ([]*domain.Instructor, error)
	PeerOutcome(ctx context.Context, student, instructor string, gpaTolerance float64, repeatTolerance int) (PeerOutcome, error)
	UpsertRecommended(ctx context.Context, edge RecommendedEdge) error
	AssignCourse(ctx context.Context, instructor, courseCode string) error
	UnassignCourse(ctx context.Context, instructor, courseCode string) error
	// RecordPassed reports false when the student, instructor or course is missing.
	RecordPassed(ctx context.Context, rec domain.PassRecord) (bool, error)
}

type relationRepo struct {
	run Runner
	dec decoder
	log *logger.Logger
	now func() time.Time
}

func NewRelationRepo(run Runner, quality *observability.DataQualityReporter, baseLog *logger.Logger) RelationRepo {
	return &relationRepo{
		run: run,
		dec: decoder{quality: quality},
		log: baseLog.With("repo", "RelationRepo"),
		now: time.Now,
	}
}

func (r *relationRepo) Candidates(ctx context.Context, courseCode string) ([]*domain.Instructor, error) {
	query, params := qCandidatesAll, map[string]any(nil)
	if courseCode != "" {
		query, params = qCandidatesForCourse, map[string]any{"course": courseCode}
	}
	rows, err := r.run.Read(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("candidate instructors: %w", err)
	}
	out := make([]*domain.Instructor, 0, len(rows))
	for _, row := range rows {
		in := r.dec.instructor(ctx, row.Props("i"))
		out = append(out, &in)
	}
	return out, nil
}

func (r *relationRepo) PeerOutcome(ctx context.Context, student, instructor string, gpaTolerance float64, repeatTolerance int) (PeerOutcome, error) {
	rows, err := r.run.Read(ctx, qPeerOutcome, map[string]any{
		"student":          student,
		"instructor":       instructor,
		"gpa_tolerance":    gpaTolerance,
		"repeat_tolerance": int64(repeatTolerance),
	})
	if err != nil {
		return PeerOutcome{}, fmt.Errorf("peer outcome %s/%s: %w", student, instructor, err)
	}
	if len(rows) == 0 {
		return PeerOutcome{}, fmt.Errorf("student %q: %w", student, apperr.ErrNotFound)
	}
	peers, okPeers := rows[0].Int("peers")
	passed, okPassed := rows[0].Int("passed")
	if !okPeers || !okPassed || peers < 0 || passed < 0 || passed > peers {
		return PeerOutcome{}, fmt.Errorf("peer outcome %s/%s: malformed row %v", student, instructor, rows[0])
	}
	return PeerOutcome{Peers: peers, Passed: passed}, nil
}

func (r *relationRepo) UpsertRecommended(ctx context.Context, edge RecommendedEdge) error {
	at := edge.ComputedAt
	if at.IsZero() {
		at = r.now()
	}
	rows, err := r.run.Write(ctx, qUpsertRecommended, map[string]any{
		"student":    edge.Student,
		"instructor": edge.Instructor,
		"score":      edge.Score,
		"confidence": edge.Confidence,
		"version":    edge.Version,
		"now":        formatTime(at),
	})
	if err != nil {
		return fmt.Errorf("upsert RECOMMENDED %s->%s: %w", edge.Student, edge.Instructor, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("RECOMMENDED %s->%s: %w", edge.Student, edge.Instructor, apperr.ErrNotFound)
	}
	return nil
}

func (r *relationRepo) AssignCourse(ctx context.Context, instructor, courseCode string) error {
	rows, err := r.run.Write(ctx, qAssignCourse, map[string]any{
		"instructor": instructor,
		"course":     courseCode,
		"now":        formatTime(r.now()),
	})
	if err != nil {
		return fmt.Errorf("assign %s to %s: %w", courseCode, instructor, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("instructor %q or course %q: %w", instructor, courseCode, apperr.ErrNotFound)
	}
	return nil
}

func (r *relationRepo) UnassignCourse(ctx context.Context, instructor, courseCode string) error {
	rows, err := r.run.Write(ctx, qUnassignCourse, map[string]any{
		"instructor": instructor,
		"course":     courseCode,
	})
	if err != nil {
		return fmt.Errorf("unassign %s from %s: %w", courseCode, instructor, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("TEACHES %s->%s: %w", instructor, courseCode, apperr.ErrNotFound)
	}
	if removed, _ := rows[0].Int("removed"); removed == 0 {
		return fmt.Errorf("TEACHES %s->%s: %w", instructor, courseCode, apperr.ErrNotFound)
	}
	return nil
}

func (r *relationRepo) RecordPassed(ctx context.Context, rec domain.PassRecord) (bool, error) {
	at := pointers.Deref(rec.PassedAt, time.Time{})
	if at.IsZero() {
		at = r.now()
	}
	rows, err := r.run.Write(ctx, qRecordPassed, map[string]any{
		"student":    rec.StudentName,
		"instructor": rec.InstructorName,
		"course":     rec.CourseCode,
		"grade":      pointers.OrNil(rec.Grade),
		"passed_at":  formatTime(at),
	})
	if err != nil {
		return false, fmt.Errorf("record pass %s/%s/%s: %w", rec.StudentName, rec.InstructorName, rec.CourseCode, err)
	}
	if len(rows) == 0 {
		r.log.Debug("pass not recorded, node missing",
			"student", rec.StudentName, "instructor", rec.InstructorName, "course", rec.CourseCode)
		return false, nil
	}
	return true, nil
}
