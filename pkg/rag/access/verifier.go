package access

import (
	"context"
	"fmt"
	"log"
	"time"

	"legal-research-be/internal/entity"
)

// QuotaExceededError carries usage details so the client can prompt an
// upgrade.
type QuotaExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily usage limit exceeded (%d of %d)", e.Used, e.Limit)
}

// UsageCounter reads today's usage for a (user, feature) pair.
type UsageCounter interface {
	CountToday(ctx context.Context, userID, feature string) (int64, error)
}

// Verifier enforces plan limits before a chat turn or upload proceeds.
type Verifier struct {
	usage  UsageCounter
	logger *log.Logger
}

func NewVerifier(usage UsageCounter, logger *log.Logger) *Verifier {
	return &Verifier{
		usage:  usage,
		logger: logger,
	}
}

// VerifyChatQuota checks today's chat usage against the plan. A limit of
// entity.Unlimited always passes. If the usage store is unreachable the
// count reads as zero: availability over strict enforcement.
func (v *Verifier) VerifyChatQuota(ctx context.Context, userID string, feature string, plan *entity.SubscriptionPlan) error {
	if plan == nil {
		return fmt.Errorf("no subscription plan resolved")
	}
	if plan.MaxChatsPerDay == entity.Unlimited {
		return nil
	}

	used, err := v.usage.CountToday(ctx, userID, feature)
	if err != nil {
		v.logger.Printf("[WARN] Usage lookup failed, treating as zero: %v", err)
		used = 0
	}

	if used >= int64(plan.MaxChatsPerDay) {
		now := time.Now()
		resetTime := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
		return &QuotaExceededError{
			Limit:      plan.MaxChatsPerDay,
			Used:       int(used),
			ResetAfter: resetTime,
		}
	}

	return nil
}

// VerifyDocumentQuota checks the user's stored document count against the
// plan's max_documents.
func (v *Verifier) VerifyDocumentQuota(documentCount int64, plan *entity.SubscriptionPlan) error {
	if plan == nil {
		return fmt.Errorf("no subscription plan resolved")
	}
	if plan.MaxDocuments == entity.Unlimited {
		return nil
	}
	if documentCount >= int64(plan.MaxDocuments) {
		return &QuotaExceededError{
			Limit: plan.MaxDocuments,
			Used:  int(documentCount),
		}
	}
	return nil
}
