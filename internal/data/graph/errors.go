package graph

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
)

func isNotFound(err error) bool { return errors.Is(err, apperr.ErrNotFound) }

// deleteDetached runs one of the delete-when-unrelated queries.
func deleteDetached(ctx context.Context, run Runner, query, entity, key string) error {
	rows, err := run.Write(ctx, query, map[string]any{"key": key})
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", entity, key, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %q: %w", entity, key, apperr.ErrNotFound)
	}
	if rels, _ := rows[0].Int("rels"); rels > 0 {
		return fmt.Errorf("%s %q still has %d relationships: %w", entity, key, rels, apperr.ErrConflict)
	}
	return nil
}
