package services

import (
	"errors"
	"testing"

	"agriconnect/internal/adapters/ai"
	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictRecordsNotification(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	crop := f.crop(farmer, agent, "Wheat")

	stub := ai.NewStub("High yield expected", 0.87)
	svc := NewPredictionService(f.db, stub, f.log)

	res, err := svc.Predict(f.ctx, agent.ID, crop.ID)
	require.NoError(t, err)
	assert.Equal(t, "High yield expected", res.Prediction)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Wheat", calls[0].CropName)
	assert.Equal(t, "North", calls[0].Region)

	var n models.Notification
	require.NoError(t, f.db.First(&n, res.NotificationID).Error)
	assert.Equal(t, farmer.ID, n.ToID)
	assert.Equal(t, string(domain.NotifyPrediction), n.Type)
	assert.Equal(t, "AI Prediction: High yield expected", n.Message)

	history, err := svc.History(f.ctx, crop.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.JSONEq(t, `{"prediction":"High yield expected","confidence":0.87}`, string(history[0].Raw))
}

func TestPredictFailures(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	crop := f.crop(farmer, agent, "Wheat")

	stub := &ai.Stub{Err: ai.ErrUnavailable}
	svc := NewPredictionService(f.db, stub, f.log)

	_, err := svc.Predict(f.ctx, agent.ID, crop.ID)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	stub.Err = errors.New("decode failed")
	_, err = svc.Predict(f.ctx, agent.ID, crop.ID)
	assert.ErrorIs(t, err, ErrPredictionFailed)

	_, err = svc.Predict(f.ctx, agent.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, stub.Calls(), 2)

	var count int64
	f.db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}
