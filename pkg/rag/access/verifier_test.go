package access

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"legal-research-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count int64
	err   error
}

func (f *fakeCounter) CountToday(ctx context.Context, userID, feature string) (int64, error) {
	return f.count, f.err
}

func plan(maxChats int) *entity.SubscriptionPlan {
	return &entity.SubscriptionPlan{Slug: "pro", MaxChatsPerDay: maxChats, MaxDocuments: 5}
}

func newVerifier(counter UsageCounter) *Verifier {
	return NewVerifier(counter, log.New(io.Discard, "", 0))
}

func TestVerifyChatQuotaUnderLimit(t *testing.T) {
	v := newVerifier(&fakeCounter{count: 3})
	err := v.VerifyChatQuota(context.Background(), "user-1", "chat", plan(10))
	assert.NoError(t, err)
}

func TestVerifyChatQuotaAtLimit(t *testing.T) {
	v := newVerifier(&fakeCounter{count: 10})
	err := v.VerifyChatQuota(context.Background(), "user-1", "chat", plan(10))

	require.Error(t, err)
	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 10, quotaErr.Limit)
	assert.Equal(t, 10, quotaErr.Used)
	assert.False(t, quotaErr.ResetAfter.IsZero())
}

func TestVerifyChatQuotaUnlimited(t *testing.T) {
	v := newVerifier(&fakeCounter{count: 99999})
	err := v.VerifyChatQuota(context.Background(), "user-1", "chat", plan(entity.Unlimited))
	assert.NoError(t, err)
}

func TestVerifyChatQuotaCounterDownReadsZero(t *testing.T) {
	v := newVerifier(&fakeCounter{err: errors.New("redis unreachable")})
	err := v.VerifyChatQuota(context.Background(), "user-1", "chat", plan(1))
	assert.NoError(t, err, "usage store outage must not block chats")
}

func TestVerifyChatQuotaNilPlan(t *testing.T) {
	v := newVerifier(&fakeCounter{})
	err := v.VerifyChatQuota(context.Background(), "user-1", "chat", nil)
	assert.Error(t, err)
}

func TestVerifyDocumentQuota(t *testing.T) {
	v := newVerifier(&fakeCounter{})

	assert.NoError(t, v.VerifyDocumentQuota(4, plan(10)))

	err := v.VerifyDocumentQuota(5, plan(10))
	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 5, quotaErr.Limit)

	unlimited := plan(10)
	unlimited.MaxDocuments = entity.Unlimited
	assert.NoError(t, v.VerifyDocumentQuota(100000, unlimited))
}
