package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	p := New(0, 0, 20)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = New(3, 500, 20)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Offset)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(New(2, 5, 20), 12)
	assert.Equal(t, 3, meta.Pages)
	assert.Equal(t, int64(12), meta.Total)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = GetMeta(New(1, 10, 20), 0)
	assert.Equal(t, 0, meta.Pages)
	assert.False(t, meta.HasNext)
}
