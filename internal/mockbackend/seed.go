package mockbackend

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/google/uuid"
)

var (
	seedRecipients = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi"}
	seedDomains    = []string{"example.com", "example.org", "mail.test"}
	seedSubjects   = []string{"Welcome aboard", "Your invoice", "Password reset", "Weekly digest", "Order shipped"}
	seedBounces    = []string{"bounced@example.com", "blocked@example.org", "full-mailbox@mail.test"}
)

// Follow-up events a send may produce, with the chance of each.
var seedOutcomes = []struct {
	eventType string
	chance    float64
}{
	{models.EventTypeDelivery, 0.9},
	{models.EventTypeOpen, 0.45},
	{models.EventTypeClick, 0.15},
	{models.EventTypeBounce, 0.06},
	{models.EventTypeComplaint, 0.01},
}

// Seed creates the configured accounts, cfg.Events sends spread over the
// last 30 days with their follow-ups, and a few suppressed addresses. The
// same cfg.Seed yields the same data.
func Seed(s *Store, cfg *Config) error {
	if _, err := s.AddUser(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail, common.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if cfg.DemoUser != "" {
		if _, err := s.AddUser(cfg.DemoUser, cfg.DemoPassword, cfg.DemoUser+"@example.com", common.RoleUser); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	now := s.clock.Now()
	window := int64(30 * 24 * time.Hour)

	for i := 0; i < cfg.Events; i++ {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return fmt.Errorf("seed message id: %w", err)
		}
		sentAt := now.Add(-time.Duration(r.Int63n(window)))
		send := models.Event{
			MessageID: id.String(),
			Email:     fmt.Sprintf("%s@%s", seedRecipients[r.Intn(len(seedRecipients))], seedDomains[r.Intn(len(seedDomains))]),
			Subject:   seedSubjects[r.Intn(len(seedSubjects))],
			EventType: models.EventTypeSend,
			Status:    "SUCCESS",
			Source:    cfg.AdminEmail,
		}
		send.Recipients = fmt.Sprintf("[%q]", send.Email)
		s.AddEvent(send, sentAt)

		for _, o := range seedOutcomes {
			if r.Float64() >= o.chance {
				continue
			}
			follow := send
			follow.EventType = o.eventType
			at := sentAt.Add(time.Duration(1+r.Intn(600)) * time.Second)
			if at.After(now) {
				at = now
			}
			if o.eventType == models.EventTypeBounce {
				follow.Status = "FAILED"
				reason := "smtp; 550 5.1.1 user unknown"
				bounceType := "Permanent"
				follow.Reason = &reason
				follow.DiagnosticCode = &reason
				follow.BounceType = &bounceType
			}
			s.AddEvent(follow, at)
		}
	}

	for _, email := range seedBounces {
		if err := s.Suppress(email, "Hard bounce", SourceAWS, ""); err != nil {
			return fmt.Errorf("seed suppression: %w", err)
		}
	}
	return nil
}
