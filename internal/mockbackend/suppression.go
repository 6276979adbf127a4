package mockbackend

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const errAWSDisabled = "AWS integration is disabled"

func (s *Server) listSuppressions(c *gin.Context) {
	page := queryInt(c, "page", 1, 0)
	limit := queryInt(c, "limit", defaultLimit, maxLimit)

	if !s.store.AWS().Enabled {
		c.JSON(http.StatusOK, models.SuppressionList{
			Suppressions: []models.SuppressionEntry{},
			Page:         page,
			Limit:        limit,
			Message:      errAWSDisabled,
		})
		return
	}

	entries, total := s.store.Suppressions(page, limit, c.Query("search"))
	p := models.NewPagination(page, limit, total)
	c.JSON(http.StatusOK, models.SuppressionList{
		Suppressions: entries,
		Total:        p.Total,
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   p.TotalPages,
		HasNext:      p.HasNext,
		HasPrev:      p.HasPrev,
	})
}

func addedBy(c *gin.Context) string {
	if claims := claimsFrom(c); claims != nil {
		return claims.Username
	}
	return ""
}

func (s *Server) addSuppression(c *gin.Context) {
	var req models.AddSuppressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.Suppress(req.Email, req.Reason, SourceManual, addedBy(c)); err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already suppressed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email added to suppression list"})
}

func (s *Server) bulkAddSuppression(c *gin.Context) {
	var req models.BulkSuppressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bulkBindError(c, req, err)
		return
	}

	by := addedBy(c)
	res := models.BulkResult{Message: "Bulk suppression completed", FailedEmails: []string{}}
	for _, email := range req.Emails {
		if err := s.store.Suppress(email, req.Reason, SourceManual, by); err != nil {
			res.FailedEmails = append(res.FailedEmails, email)
			continue
		}
		res.SuccessCount++
	}
	res.FailedCount = len(res.FailedEmails)
	c.JSON(http.StatusOK, res)
}

func (s *Server) removeSuppression(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	if !s.store.AWS().Enabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": errAWSDisabled})
		return
	}

	if err := s.store.Unsuppress(email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email is not suppressed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email removed from AWS SES suppression list and local database"})
}

func (s *Server) bulkRemoveSuppression(c *gin.Context) {
	var req models.BulkSuppressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bulkBindError(c, req, err)
		return
	}
	if !s.store.AWS().Enabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": errAWSDisabled})
		return
	}

	res := models.BulkResult{Message: "Bulk removal completed", FailedEmails: []string{}}
	for _, email := range req.Emails {
		if err := s.store.Unsuppress(email); err != nil {
			res.FailedEmails = append(res.FailedEmails, email)
			continue
		}
		res.SuccessCount++
	}
	res.FailedCount = len(res.FailedEmails)
	c.JSON(http.StatusOK, res)
}

// bulkBindError answers a failed bind of a bulk request. A well-formed body
// with no emails gets a readable message instead of the validator's.
func bulkBindError(c *gin.Context, req models.BulkSuppressionRequest, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) && len(req.Emails) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one email is required"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) suppressionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.SuppressionStatus(c.Param("email")))
}

// triggerSync starts a background sync that completes after syncDelay.
// Triggering while one is running joins it.
func (s *Server) triggerSync(c *gin.Context) {
	if !s.store.AWS().Enabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "AWS integration is disabled. Please configure AWS settings first."})
		return
	}

	if s.store.BeginSync() {
		s.logger.Info(c.Request.Context(), "suppression sync started")
		s.clock.AfterFunc(s.syncDelay, s.store.FinishSync)
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Sync triggered. Data will be updated in background.",
		"status":  "in_progress",
	})
}

func (s *Server) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.SyncStatus())
}
