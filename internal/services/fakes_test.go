package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

// memGraph is an in-memory stand-in for the graph repos.
type memGraph struct {
	mu          sync.Mutex
	students    map[string]*domain.Student
	instructors map[string]*domain.Instructor
	courses     map[string]*domain.Course
	teaches     map[string]map[string]bool // course -> instructor
	outcomes    map[string]graph.PeerOutcome
	outcomeErr  map[string]error
	candErr     error
	upsertErr   error
	onUpsert    func()
	peers       []graph.PeerMatch
	upserts     []graph.RecommendedEdge
	passes      []domain.PassRecord
}

func newMemGraph() *memGraph {
	return &memGraph{
		students:    map[string]*domain.Student{},
		instructors: map[string]*domain.Instructor{},
		courses:     map[string]*domain.Course{},
		teaches:     map[string]map[string]bool{},
		outcomes:    map[string]graph.PeerOutcome{},
		outcomeErr:  map[string]error{},
	}
}

func notFound(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, apperr.ErrNotFound)
}

func (g *memGraph) addStudent(s domain.Student)        { g.students[s.Name] = &s }
func (g *memGraph) addInstructor(in domain.Instructor) { g.instructors[in.Name] = &in }
func (g *memGraph) addCourse(c domain.Course, teachers ...string) {
	g.courses[c.Code] = &c
	g.teaches[c.Code] = map[string]bool{}
	for _, t := range teachers {
		g.teaches[c.Code][t] = true
	}
}

type studentRepo struct{ g *memGraph }

func (r studentRepo) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.students[s.Name]; ok {
		return nil, fmt.Errorf("student %q: %w", s.Name, apperr.ErrConflict)
	}
	cp := *s
	r.g.students[s.Name] = &cp
	return &cp, nil
}

func (r studentRepo) Get(ctx context.Context, name string) (*domain.Student, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	s, ok := r.g.students[name]
	if !ok {
		return nil, notFound("student", name)
	}
	cp := *s
	return &cp, nil
}

func (r studentRepo) List(ctx context.Context) ([]*domain.Student, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	out := make([]*domain.Student, 0, len(r.g.students))
	for _, s := range r.g.students {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r studentRepo) Update(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.students[s.Name]; !ok {
		return nil, notFound("student", s.Name)
	}
	cp := *s
	r.g.students[s.Name] = &cp
	return &cp, nil
}

func (r studentRepo) Delete(ctx context.Context, name string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.students[name]; !ok {
		return notFound("student", name)
	}
	delete(r.g.students, name)
	return nil
}

func (r studentRepo) Peers(ctx context.Context, name string, gpaTolerance float64, repeatTolerance int) ([]graph.PeerMatch, error) {
	return r.g.peers, nil
}

type instructorRepo struct{ g *memGraph }

func (r instructorRepo) Create(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.instructors[in.Name]; ok {
		return nil, fmt.Errorf("instructor %q: %w", in.Name, apperr.ErrConflict)
	}
	cp := *in
	r.g.instructors[in.Name] = &cp
	return &cp, nil
}

func (r instructorRepo) Get(ctx context.Context, name string) (*domain.Instructor, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	in, ok := r.g.instructors[name]
	if !ok {
		return nil, notFound("instructor", name)
	}
	cp := *in
	return &cp, nil
}

func (r instructorRepo) List(ctx context.Context, filter domain.InstructorFilter) ([]*domain.Instructor, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	var out []*domain.Instructor
	for _, in := range r.g.instructors {
		if filter.TeachingStyle != "" && in.TeachingStyle != filter.TeachingStyle {
			continue
		}
		if filter.ClassMode != "" && in.ClassMode != filter.ClassMode {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r instructorRepo) Update(ctx context.Context, in *domain.Instructor) (*domain.Instructor, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	cp := *in
	r.g.instructors[in.Name] = &cp
	return &cp, nil
}

func (r instructorRepo) Delete(ctx context.Context, name string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.instructors[name]; !ok {
		return notFound("instructor", name)
	}
	delete(r.g.instructors, name)
	return nil
}

func (r instructorRepo) Courses(ctx context.Context, name string) ([]*domain.Course, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.instructors[name]; !ok {
		return nil, notFound("instructor", name)
	}
	var out []*domain.Course
	for code, ts := range r.g.teaches {
		if ts[name] {
			cp := *r.g.courses[code]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type courseRepo struct{ g *memGraph }

func (r courseRepo) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.courses[c.Code]; ok {
		return nil, fmt.Errorf("course %q: %w", c.Code, apperr.ErrConflict)
	}
	cp := *c
	r.g.courses[c.Code] = &cp
	r.g.teaches[c.Code] = map[string]bool{}
	return &cp, nil
}

func (r courseRepo) Get(ctx context.Context, code string) (*domain.Course, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	c, ok := r.g.courses[code]
	if !ok {
		return nil, notFound("course", code)
	}
	cp := *c
	return &cp, nil
}

func (r courseRepo) List(ctx context.Context, department string) ([]*domain.Course, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	var out []*domain.Course
	for _, c := range r.g.courses {
		if department == "" || c.Department == department {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r courseRepo) Update(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	cp := *c
	r.g.courses[c.Code] = &cp
	return &cp, nil
}

func (r courseRepo) Delete(ctx context.Context, code string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if len(r.g.teaches[code]) > 0 {
		return fmt.Errorf("course %q still has relationships: %w", code, apperr.ErrConflict)
	}
	delete(r.g.courses, code)
	return nil
}

type relationRepo struct{ g *memGraph }

func (r relationRepo) Candidates(ctx context.Context, courseCode string) ([]*domain.Instructor, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if r.g.candErr != nil {
		return nil, r.g.candErr
	}
	var out []*domain.Instructor
	for name, in := range r.g.instructors {
		if courseCode != "" && !r.g.teaches[courseCode][name] {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r relationRepo) PeerOutcome(ctx context.Context, student, instructor string, gpaTolerance float64, repeatTolerance int) (graph.PeerOutcome, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if err := r.g.outcomeErr[instructor]; err != nil {
		return graph.PeerOutcome{}, err
	}
	return r.g.outcomes[instructor], nil
}

func (r relationRepo) UpsertRecommended(ctx context.Context, edge graph.RecommendedEdge) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if r.g.upsertErr != nil {
		return r.g.upsertErr
	}
	r.g.upserts = append(r.g.upserts, edge)
	if r.g.onUpsert != nil {
		r.g.onUpsert()
	}
	return nil
}

func (r relationRepo) AssignCourse(ctx context.Context, instructor, courseCode string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.instructors[instructor]; !ok {
		return notFound("instructor", instructor)
	}
	if _, ok := r.g.courses[courseCode]; !ok {
		return notFound("course", courseCode)
	}
	r.g.teaches[courseCode][instructor] = true
	return nil
}

func (r relationRepo) UnassignCourse(ctx context.Context, instructor, courseCode string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if !r.g.teaches[courseCode][instructor] {
		return notFound("assignment", instructor+"/"+courseCode)
	}
	delete(r.g.teaches[courseCode], instructor)
	return nil
}

func (r relationRepo) RecordPassed(ctx context.Context, rec domain.PassRecord) (bool, error) {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	_, s := r.g.students[rec.StudentName]
	_, i := r.g.instructors[rec.InstructorName]
	_, c := r.g.courses[rec.CourseCode]
	if !s || !i || !c {
		return false, nil
	}
	r.g.passes = append(r.g.passes, rec)
	return true, nil
}

// memCache keys entries by generation the way the redis cache does.
type memCache struct {
	mu            sync.Mutex
	gen           int64
	entries       map[string][]domain.Recommendation
	gets          int
	invalidations int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]domain.Recommendation{}} }

func memCacheKey(gen int64, student, course string) string {
	return fmt.Sprintf("%d|%s|%s", gen, student, course)
}

func (c *memCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memCache) Get(ctx context.Context, gen int64, student, course string) ([]domain.Recommendation, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	recs, ok := c.entries[memCacheKey(gen, student, course)]
	return recs, ok, nil
}

func (c *memCache) Set(ctx context.Context, gen int64, student, course string, recs []domain.Recommendation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memCacheKey(gen, student, course)] = recs
	return nil
}

func (c *memCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidations++
	return nil
}

type memRuns struct {
	mu   sync.Mutex
	runs []*domain.RecommendationRun
}

func (m *memRuns) Create(dbc dbctx.Context, run *domain.RecommendationRun) (*domain.RecommendationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return run, nil
}

func (m *memRuns) ListByStudent(dbc dbctx.Context, student string, limit int) ([]*domain.RecommendationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.RecommendationRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].StudentName == student {
			out = append(out, m.runs[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testStrategy(t *testing.T) scoring.Strategy {
	t.Helper()
	cfg := scoring.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default scoring config: %v", err)
	}
	return scoring.NewWeighted(cfg)
}
