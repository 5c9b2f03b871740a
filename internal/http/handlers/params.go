package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
)

const maxLimit = 500

// queryLimit reads ?limit=. Absent means def; 0 means no cap.
func queryLimit(c *gin.Context, def int) (int, error) {
	return queryLimitMax(c, def, maxLimit)
}

func queryLimitMax(c *gin.Context, def, max int) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > max {
		return 0, fmt.Errorf("limit must be an integer in [0,%d]: %w", max, apperr.ErrInvalidArgument)
	}
	return n, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, apperr.ErrInvalidArgument)
	}
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
