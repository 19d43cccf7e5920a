package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Every user relation must point from the owning row to users.id.
// A users column sharing a foreign key's name would flip it into has_one.
func TestUserRelationsAreBelongsTo(t *testing.T) {
	cases := []struct {
		model    interface{}
		relation string
		fk       string
		table    string
	}{
		{&Crop{}, "Farmer", "farmer_id", "crops"},
		{&Crop{}, "Agent", "agent_id", "crops"},
		{&CropStatusEvent{}, "Actor", "actor_id", "crop_status_events"},
		{&Payment{}, "Farmer", "farmer_id", "payments"},
		{&Payment{}, "Crop", "crop_id", "payments"},
		{&Notification{}, "Sender", "from_id", "notifications"},
		{&Media{}, "Farmer", "farmer_id", "media"},
	}

	cache := &sync.Map{}
	for _, tc := range cases {
		s, err := schema.Parse(tc.model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		rel, ok := s.Relationships.Relations[tc.relation]
		require.True(t, ok, "%s.%s", s.Name, tc.relation)
		assert.Equal(t, schema.BelongsTo, rel.Type, "%s.%s", s.Name, tc.relation)
		require.Len(t, rel.References, 1)
		assert.Equal(t, tc.fk, rel.References[0].ForeignKey.DBName)
		assert.Equal(t, "id", rel.References[0].PrimaryKey.DBName)

		constraint := rel.ParseConstraint()
		require.NotNil(t, constraint)
		assert.Equal(t, tc.table, constraint.Schema.Table)
	}
}

func TestFarmerCodeColumn(t *testing.T) {
	s, err := schema.Parse(&User{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.NotNil(t, s.LookUpField("farmer_code"))
	assert.Nil(t, s.LookUpField("farmer_id"))
}

func TestToResponseCarriesFarmerCode(t *testing.T) {
	code := "FARM-2026-0003"
	resp := (&User{ID: 4, Name: "Asha", Role: "farmer", FarmerCode: &code}).ToResponse()
	assert.Equal(t, code, resp.FarmerID)

	assert.Empty(t, (&User{ID: 5, Role: "agent"}).ToResponse().FarmerID)
}
