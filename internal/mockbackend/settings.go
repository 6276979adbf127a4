package mockbackend

import (
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/gin-gonic/gin"
)

// maskKey keeps the first four characters of an access key.
func maskKey(k string) string {
	if len(k) <= 4 {
		return "****"
	}
	return k[:4] + "****"
}

func (s *Server) getAWSSettings(c *gin.Context) {
	aws := s.store.AWS()
	if aws.AccessKey != "" {
		aws.AccessKey = maskKey(aws.AccessKey)
	}
	aws.SecretKey = ""
	c.JSON(http.StatusOK, aws)
}

func (s *Server) putAWSSettings(c *gin.Context) {
	var req models.AWSSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.SetAWS(req)
	s.logger.Info(c.Request.Context(), "aws settings updated", "enabled", req.Enabled, "region", req.Region, "by", addedBy(c))
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

// testAWSSettings checks the submitted settings. Blank keys are taken from
// the stored settings so a saved secret can be tested without retyping it.
func (s *Server) testAWSSettings(c *gin.Context) {
	var req models.AWSSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored := s.store.AWS()
	if req.AccessKey == "" {
		req.AccessKey = stored.AccessKey
	}
	if req.SecretKey == "" {
		req.SecretKey = stored.SecretKey
	}

	if err := s.checker.Check(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "AWS connection successful"})
}

func (s *Server) getRetention(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Retention())
}

func (s *Server) putRetention(c *gin.Context) {
	var req models.RetentionSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.SetRetention(req)
	if n := s.store.PurgeExpired(); n > 0 {
		s.logger.Info(c.Request.Context(), "expired events purged", "count", n, "retention_days", req.RetentionDays)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Retention settings updated successfully"})
}

func (s *Server) getTimezone(c *gin.Context) {
	c.JSON(http.StatusOK, models.TimezoneSettings{Timezone: s.store.Timezone()})
}

func (s *Server) putTimezone(c *gin.Context) {
	var req models.TimezoneSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SetTimezone(req.Timezone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Timezone settings updated successfully"})
}
