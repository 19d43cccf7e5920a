package services

import (
	"fmt"
	"testing"

	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendValidatesRecipient(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	svc := NewNotificationService(f.db, f.log)

	n, err := svc.Send(f.ctx, agent.ID, &SendInput{To: farmer.ID, Message: "Rain expected"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.NotifyGeneral), n.Type)
	assert.False(t, n.Read)
	require.NotNil(t, n.FromID)
	assert.Equal(t, agent.ID, *n.FromID)

	_, err = svc.Send(f.ctx, agent.ID, &SendInput{To: agent.ID, Message: "hi"})
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	_, err = svc.Send(f.ctx, agent.ID, &SendInput{To: 9999, Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Send(f.ctx, agent.ID, &SendInput{To: farmer.ID, Message: " "})
	assert.ErrorIs(t, err, ErrNotificationIncomplete)

	_, err = svc.Send(f.ctx, agent.ID, &SendInput{To: farmer.ID, Message: "x", Type: "spam"})
	assert.ErrorIs(t, err, ErrInvalidNotifyType)
}

func TestGetMinePagination(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	svc := NewNotificationService(f.db, f.log)

	for i := 1; i <= 12; i++ {
		_, err := svc.Send(f.ctx, agent.ID, &SendInput{To: farmer.ID, Message: fmt.Sprintf("msg %d", i), Type: "recommendation"})
		require.NoError(t, err)
	}

	page, err := svc.GetMine(f.ctx, farmer.ID, pagination.New(2, 5, 20))
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 5)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.Equal(t, int64(12), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 5, page.Pagination.Limit)

	// newest first: page two starts at the seventh newest
	assert.Equal(t, "msg 7", page.Notifications[0].Message)
	require.NotNil(t, page.Notifications[0].Sender)
	assert.Equal(t, "agent", page.Notifications[0].Sender.Name)

	last, err := svc.GetMine(f.ctx, farmer.ID, pagination.New(3, 5, 20))
	require.NoError(t, err)
	assert.Len(t, last.Notifications, 2)
}
