package graph

import (
	"context"
	"strings"
	"sync"
)

type call struct {
	write  bool
	query  string
	params map[string]any
}

type scripted struct {
	match string
	rows  []Row
	err   error
}

// fakeRunner answers queries from a script keyed by a substring of the query.
// The first matching entry wins; unmatched queries return no rows.
type fakeRunner struct {
	mu     sync.Mutex
	script []scripted
	calls  []call
}

func (f *fakeRunner) on(match string, rows []Row, err error) *fakeRunner {
	f.script = append(f.script, scripted{match: match, rows: rows, err: err})
	return f
}

func (f *fakeRunner) Read(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	return f.answer(false, query, params)
}

func (f *fakeRunner) Write(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	return f.answer(true, query, params)
}

func (f *fakeRunner) answer(write bool, query string, params map[string]any) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{write: write, query: query, params: params})
	for _, s := range f.script {
		if strings.Contains(query, s.match) {
			return s.rows, s.err
		}
	}
	return nil, nil
}

func (f *fakeRunner) writes() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.write {
			out = append(out, c)
		}
	}
	return out
}
