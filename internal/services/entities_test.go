package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/pkg/pointers"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

func TestStudentServiceLifecycle(t *testing.T) {
	g := newMemGraph()
	cache := newMemCache()
	svc := NewStudentService(logger.Nop(), studentRepo{g}, testStrategy(t), cache)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Student{
		Name: " Lucia ", LearningStyle: "Teórico", ClassMode: "with-tech", GPA: 90,
	})
	require.NoError(t, err)
	require.Equal(t, "Lucia", created.Name)
	require.Equal(t, domain.LearningTheoretical, created.LearningStyle)
	require.Equal(t, domain.ClassWithTechnology, created.ClassMode)
	require.Greater(t, created.TotalScore, 0.0)
	require.LessOrEqual(t, created.TotalScore, 100.0)
	require.Equal(t, 1, cache.invalidations)

	_, err = svc.Create(ctx, &domain.Student{Name: "Lucia", LearningStyle: "mixed", ClassMode: "mixed"})
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, &domain.Student{Name: "Bad", LearningStyle: "visual", ClassMode: "mixed"})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Create(ctx, &domain.Student{Name: "Bad", LearningStyle: "mixed", ClassMode: "mixed", GPA: 140})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	before := created.TotalScore
	updated, err := svc.Update(ctx, "Lucia", domain.StudentPatch{RepeatCount: pointers.Ptr(3)})
	require.NoError(t, err)
	require.Less(t, updated.TotalScore, before)

	restyled, err := svc.Update(ctx, "Lucia", domain.StudentPatch{LearningStyle: pointers.Ptr("practical")})
	require.NoError(t, err)
	require.Equal(t, domain.LearningPractical, restyled.LearningStyle)
	require.Equal(t, updated.TotalScore, restyled.TotalScore)

	_, err = svc.Update(ctx, "Lucia", domain.StudentPatch{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = svc.Update(ctx, "Ghost", domain.StudentPatch{GPA: pointers.Ptr(float64(70))})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, "Lucia"))
	_, err = svc.Get(ctx, "Lucia")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, 4, cache.invalidations)
}

func TestStudentServiceSimilar(t *testing.T) {
	g := newMemGraph()
	g.addStudent(domain.Student{Name: "ana", LearningStyle: domain.LearningMixed, ClassMode: domain.ClassMixed, GPA: 80})
	g.peers = []graph.PeerMatch{
		{Student: domain.Student{Name: "far"}, GPADiff: 12, RepeatDiff: 1},
		{Student: domain.Student{Name: "near"}, GPADiff: -1, RepeatDiff: 0},
		{Student: domain.Student{Name: "mid"}, GPADiff: 6, RepeatDiff: 0},
	}
	svc := NewStudentService(logger.Nop(), studentRepo{g}, testStrategy(t), nil)

	peers, err := svc.Similar(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, peers, 3)
	require.Equal(t, "near", peers[0].Student.Name)
	require.Equal(t, "mid", peers[1].Student.Name)
	require.Equal(t, "far", peers[2].Student.Name)
	require.GreaterOrEqual(t, peers[0].Similarity, peers[1].Similarity)

	_, err = svc.Similar(context.Background(), "nobody")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInstructorServiceLifecycle(t *testing.T) {
	g := newMemGraph()
	g.addCourse(domain.Course{Code: "FIS110", Name: "Physics"})
	cache := newMemCache()
	svc := NewInstructorService(logger.Nop(), instructorRepo{g}, relationRepo{g}, testStrategy(t), cache)
	ctx := context.Background()

	in, err := svc.Create(ctx, &domain.Instructor{
		Name: "Rosa", TeachingStyle: "practico", ClassMode: "sin tecnologia",
		YearsExperience: 10, Evaluation: 4.2, PassRate: 75, Availability: 3,
	})
	require.NoError(t, err)
	require.Equal(t, domain.LearningPractical, in.TeachingStyle)
	require.Equal(t, domain.ClassWithoutTechnology, in.ClassMode)
	require.Greater(t, in.TotalScore, 0.0)

	_, err = svc.Create(ctx, &domain.Instructor{Name: "Bad", TeachingStyle: "mixed", ClassMode: "mixed", Evaluation: 7})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	list, err := svc.List(ctx, "practical", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = svc.List(ctx, "theoretical", "")
	require.NoError(t, err)
	require.Empty(t, list)
	_, err = svc.List(ctx, "", "hologram")
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	better, err := svc.Update(ctx, "Rosa", domain.InstructorPatch{PassRate: pointers.Ptr(float64(95))})
	require.NoError(t, err)
	require.Greater(t, better.TotalScore, in.TotalScore)

	moved, err := svc.Update(ctx, "Rosa", domain.InstructorPatch{Availability: pointers.Ptr(5)})
	require.NoError(t, err)
	require.Equal(t, better.TotalScore, moved.TotalScore)

	require.NoError(t, svc.AssignCourse(ctx, "Rosa", "FIS110"))
	courses, err := svc.Courses(ctx, "Rosa")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "FIS110", courses[0].Code)

	require.ErrorIs(t, svc.AssignCourse(ctx, "Rosa", ""), apperr.ErrInvalidArgument)
	require.ErrorIs(t, svc.AssignCourse(ctx, "Rosa", "NOPE"), apperr.ErrNotFound)

	require.NoError(t, svc.UnassignCourse(ctx, "Rosa", "FIS110"))
	require.ErrorIs(t, svc.UnassignCourse(ctx, "Rosa", "FIS110"), apperr.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "Rosa"))
	require.Equal(t, 6, cache.invalidations)
}

func TestCourseService(t *testing.T) {
	g := newMemGraph()
	cache := newMemCache()
	svc := NewCourseService(logger.Nop(), courseRepo{g}, cache)
	ctx := context.Background()

	c, err := svc.Create(ctx, &domain.Course{Code: " QUI100 ", Name: "Chemistry", Department: "Sciences", Credits: 4})
	require.NoError(t, err)
	require.Equal(t, "QUI100", c.Code)

	_, err = svc.Create(ctx, &domain.Course{Code: "QUI100", Name: "Again"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	_, err = svc.Create(ctx, &domain.Course{Code: "", Name: "Nameless"})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	updated, err := svc.Update(ctx, "QUI100", domain.CoursePatch{Credits: pointers.Ptr(6)})
	require.NoError(t, err)
	require.Equal(t, "QUI100", updated.Code)
	require.Equal(t, 6, updated.Credits)
	require.Equal(t, "Chemistry", updated.Name)

	_, err = svc.Update(ctx, "QUI100", domain.CoursePatch{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	list, err := svc.List(ctx, "Sciences")
	require.NoError(t, err)
	require.Len(t, list, 1)

	g.teaches["QUI100"]["someone"] = true
	require.ErrorIs(t, svc.Delete(ctx, "QUI100"), apperr.ErrConflict)
	delete(g.teaches["QUI100"], "someone")
	require.NoError(t, svc.Delete(ctx, "QUI100"))
	require.Equal(t, 3, cache.invalidations)
}
