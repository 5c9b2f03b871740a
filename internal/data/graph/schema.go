package graph

import (
	"context"

	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT student_name_unique IF NOT EXISTS FOR (s:Student) REQUIRE s.name IS UNIQUE`,
	`CREATE CONSTRAINT instructor_name_unique IF NOT EXISTS FOR (i:Instructor) REQUIRE i.name IS UNIQUE`,
	`CREATE CONSTRAINT course_code_unique IF NOT EXISTS FOR (c:Course) REQUIRE c.code IS UNIQUE`,
}

// EnsureSchema creates the uniqueness constraints. Failures are logged and
// skipped; it returns how many statements succeeded.
func EnsureSchema(ctx context.Context, run Runner, log *logger.Logger) int {
	applied := 0
	for _, stmt := range schemaStatements {
		if _, err := run.Write(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err, "statement", stmt)
			}
			continue
		}
		applied++
	}
	return applied
}

// Ping runs a trivial read to check the store is reachable.
func Ping(ctx context.Context, run Runner) error {
	_, err := run.Read(ctx, qPing, nil)
	return err
}
