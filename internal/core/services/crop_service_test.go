package services

import (
	"testing"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wheat() *RegisterCropInput {
	return &RegisterCropInput{
		Name:                 "Wheat",
		Acres:                3.5,
		CultivationStartDate: "2024-03-01",
		TypeOfSoil:           "loam",
		Age:                  ptr(41),
		Gender:               "female",
		Phone:                "999",
		Address:              "Village road 1",
	}
}

func TestRegisterCropAssignsRegionalAgent(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	f.user("elsewhere", domain.RoleAgent, "South")
	farmer := f.user("farmer", domain.RoleFarmer, "North")

	res, err := f.cropService(AssignLeastLoaded).RegisterCrop(f.ctx, farmer.ID, wheat())
	require.NoError(t, err)
	require.NotNil(t, res.AssignedAgent)
	assert.Equal(t, "agent", *res.AssignedAgent)

	var crop models.Crop
	require.NoError(t, f.db.First(&crop, res.CropID).Error)
	require.NotNil(t, crop.AgentID)
	assert.Equal(t, agent.ID, *crop.AgentID)
	assert.Equal(t, string(domain.CropPending), crop.Status)
	assert.Nil(t, crop.RejectionReason)
	assert.Equal(t, "Village road 1", crop.FarmerDetails.Data().Address)
	assert.Equal(t, 41, *crop.FarmerDetails.Data().Age)
}

func TestRegisterCropWithoutMatchingAgent(t *testing.T) {
	f := newFixture(t)
	f.user("agent", domain.RoleAgent, "South")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	noRegion := f.user("drifter", domain.RoleFarmer, "")

	svc := f.cropService(AssignLeastLoaded)
	for _, id := range []uint{farmer.ID, noRegion.ID} {
		res, err := svc.RegisterCrop(f.ctx, id, wheat())
		require.NoError(t, err)
		assert.Nil(t, res.AssignedAgent)

		var crop models.Crop
		require.NoError(t, f.db.First(&crop, res.CropID).Error)
		assert.Nil(t, crop.AgentID)
	}
}

func TestAgentSelectionStrategies(t *testing.T) {
	f := newFixture(t)
	first := f.user("first", domain.RoleAgent, "North")
	second := f.user("second", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")

	// first already carries two pending crops
	f.crop(farmer, first, "Rice")
	f.crop(farmer, first, "Rice")

	res, err := f.cropService(AssignFirstMatch).RegisterCrop(f.ctx, farmer.ID, wheat())
	require.NoError(t, err)
	assert.Equal(t, "first", *res.AssignedAgent)

	res, err = f.cropService(AssignLeastLoaded).RegisterCrop(f.ctx, farmer.ID, wheat())
	require.NoError(t, err)
	assert.Equal(t, "second", *res.AssignedAgent)

	var crop models.Crop
	require.NoError(t, f.db.First(&crop, res.CropID).Error)
	assert.Equal(t, second.ID, *crop.AgentID)
}

func TestLeastLoadedTieBreaksOnLowestID(t *testing.T) {
	f := newFixture(t)
	f.user("first", domain.RoleAgent, "North")
	f.user("second", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")

	res, err := f.cropService(AssignLeastLoaded).RegisterCrop(f.ctx, farmer.ID, wheat())
	require.NoError(t, err)
	assert.Equal(t, "first", *res.AssignedAgent)
}

func TestRegisterCropValidation(t *testing.T) {
	f := newFixture(t)
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	svc := f.cropService(AssignLeastLoaded)

	bad := []func(*RegisterCropInput){
		func(in *RegisterCropInput) { in.Name = "" },
		func(in *RegisterCropInput) { in.Acres = 0 },
		func(in *RegisterCropInput) { in.CultivationStartDate = "March" },
		func(in *RegisterCropInput) { in.EndDate = "2024-01-01" },
		func(in *RegisterCropInput) { in.Price = ptr(-1.0) },
	}
	for i, mutate := range bad {
		in := wheat()
		mutate(in)
		_, err := svc.RegisterCrop(f.ctx, farmer.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "case %d", i)
	}
}

func TestGetMyCropsNewestFirstWithAgent(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	other := f.user("other", domain.RoleFarmer, "North")

	f.crop(farmer, agent, "Rice")
	f.crop(farmer, agent, "Maize")
	f.crop(other, agent, "Millet")

	svc := f.cropService(AssignLeastLoaded)
	list, err := svc.GetMyCrops(f.ctx, farmer.ID, pagination.New(1, 10, 10))
	require.NoError(t, err)
	require.Len(t, list.Crops, 2)
	assert.Equal(t, "Maize", list.Crops[0].Name)
	require.NotNil(t, list.Crops[0].Agent)
	assert.Equal(t, "agent", list.Crops[0].Agent.Name)
	assert.Empty(t, list.Crops[0].Agent.Password)
	assert.Equal(t, int64(2), list.Pagination.Total)

	empty, err := svc.GetMyCrops(f.ctx, agent.ID, pagination.New(1, 10, 10))
	require.NoError(t, err)
	assert.Empty(t, empty.Crops)
	assert.NotNil(t, empty.Crops)
}

func TestGetCropAccess(t *testing.T) {
	f := newFixture(t)
	agent := f.user("agent", domain.RoleAgent, "North")
	stranger := f.user("stranger", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	admin := f.user("admin", domain.RoleAdmin, "")
	crop := f.crop(farmer, agent, "Rice")

	svc := f.cropService(AssignLeastLoaded)

	_, err := svc.GetCrop(f.ctx, farmer.ID, domain.RoleFarmer, crop.ID)
	assert.NoError(t, err)
	_, err = svc.GetCrop(f.ctx, agent.ID, domain.RoleAgent, crop.ID)
	assert.NoError(t, err)
	_, err = svc.GetCrop(f.ctx, admin.ID, domain.RoleAdmin, crop.ID)
	assert.NoError(t, err)

	_, err = svc.GetCrop(f.ctx, stranger.ID, domain.RoleAgent, crop.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.GetCrop(f.ctx, farmer.ID, domain.RoleFarmer, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
