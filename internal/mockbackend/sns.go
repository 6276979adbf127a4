package mockbackend

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/gin-gonic/gin"
)

type snsEnvelope struct {
	Type         string `json:"Type"`
	TopicArn     string `json:"TopicArn"`
	Message      string `json:"Message"`
	SubscribeURL string `json:"SubscribeURL"`
}

type sesNotification struct {
	EventType string `json:"eventType"`
	Mail      struct {
		Timestamp     string   `json:"timestamp"`
		MessageID     string   `json:"messageId"`
		Source        string   `json:"source"`
		Destination   []string `json:"destination"`
		CommonHeaders struct {
			Subject string `json:"subject"`
		} `json:"commonHeaders"`
	} `json:"mail"`
	Bounce struct {
		BounceType        string `json:"bounceType"`
		BounceSubType     string `json:"bounceSubType"`
		BouncedRecipients []struct {
			EmailAddress   string `json:"emailAddress"`
			DiagnosticCode string `json:"diagnosticCode"`
		} `json:"bouncedRecipients"`
		ReportingMTA string `json:"reportingMTA"`
	} `json:"bounce"`
	Delivery struct {
		ProcessingTimeMillis int    `json:"processingTimeMillis"`
		SmtpResponse         string `json:"smtpResponse"`
		RemoteMtaIP          string `json:"remoteMtaIp"`
		ReportingMTA         string `json:"reportingMTA"`
	} `json:"delivery"`
}

// receiveSNS ingests an SES notification delivered through SNS.
// Subscription confirmations are acknowledged without calling SubscribeURL.
func (s *Server) receiveSNS(c *gin.Context) {
	var env snsEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if env.Type == "SubscriptionConfirmation" && env.SubscribeURL != "" {
		s.logger.Info(c.Request.Context(), "sns subscription confirmation", "topic", env.TopicArn)
		c.JSON(http.StatusOK, gin.H{"status": "subscription confirmed"})
		return
	}

	if s.topicARN != "" && env.TopicArn != s.topicARN {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid SNS topic"})
		return
	}
	if env.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Message field"})
		return
	}

	var n sesNotification
	if err := json.Unmarshal([]byte(env.Message), &n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid SES event JSON"})
		return
	}
	at, err := time.Parse(time.RFC3339, n.Mail.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mail timestamp"})
		return
	}
	if len(n.Mail.Destination) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing destination recipients"})
		return
	}

	recipients, _ := json.Marshal(n.Mail.Destination)
	e := models.Event{
		MessageID:  n.Mail.MessageID,
		Email:      n.Mail.Destination[0],
		Subject:    n.Mail.CommonHeaders.Subject,
		EventType:  strings.ToLower(n.EventType),
		Status:     "SUCCESS",
		Source:     n.Mail.Source,
		Recipients: string(recipients),
	}

	switch e.EventType {
	case models.EventTypeBounce:
		if len(n.Bounce.BouncedRecipients) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing bounce recipients"})
			return
		}
		diag := n.Bounce.BouncedRecipients[0].DiagnosticCode
		e.Status = "FAILED"
		e.Reason = &diag
		e.DiagnosticCode = &diag
		e.BounceType = &n.Bounce.BounceType
		e.BounceSubType = &n.Bounce.BounceSubType
		e.ReportingMTA = &n.Bounce.ReportingMTA
	case models.EventTypeDelivery:
		e.ProcessingTimeMillis = &n.Delivery.ProcessingTimeMillis
		e.SmtpResponse = &n.Delivery.SmtpResponse
		e.RemoteMtaIP = &n.Delivery.RemoteMtaIP
		e.ReportingMTA = &n.Delivery.ReportingMTA
	}

	stored := s.store.AddEvent(e, at)
	s.logger.Debug(c.Request.Context(), "ses event stored", "id", stored.ID, "type", stored.EventType, "message_id", stored.MessageID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) health(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
			"version":   "1.0.0",
			"service":   "SES Monitoring API",
		})
	}
}
