package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup removes members created by end-to-end tests, matched by a
// full-name prefix, together with their payments. Not routed in production.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	like := prefix + "%"

	var memberIDs []int64
	if err := s.db.WithContext(ctx).
		Table("members").
		Select("id").
		Where("full_name LIKE ?", like).
		Scan(&memberIDs).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	if len(memberIDs) > 0 {
		if err := s.db.WithContext(ctx).Exec(
			`DELETE FROM payments WHERE member_id IN ?`, memberIDs,
		).Error; err != nil {
			AbortWithError(c, err)
			return
		}
		if err := s.db.WithContext(ctx).Exec(
			`DELETE FROM members WHERE id IN ?`, memberIDs,
		).Error; err != nil {
			AbortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
