package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a parsed multipart file the way the HTTP layer hands it over
func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestUploadLinksNewestAgent(t *testing.T) {
	f := newFixture(t)
	oldAgent := f.user("old", domain.RoleAgent, "North")
	newAgent := f.user("new", domain.RoleAgent, "North")
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	f.crop(farmer, oldAgent, "Rice")
	f.crop(farmer, newAgent, "Wheat")
	f.crop(farmer, nil, "Millet")

	svc := NewMediaService(f.db, f.cfg.Upload, f.log)
	m, err := svc.Upload(f.ctx, farmer.ID, fileHeader(t, "Field.JPG", "image/jpeg", []byte("jpeg-bytes")), " north plot ")
	require.NoError(t, err)

	require.NotNil(t, m.AgentID)
	assert.Equal(t, newAgent.ID, *m.AgentID)
	assert.Equal(t, string(domain.FileImage), m.FileType)
	assert.Equal(t, "Field.JPG", m.FileName)
	assert.Equal(t, int64(len("jpeg-bytes")), m.FileSize)
	assert.Equal(t, "north plot", m.Description)
	assert.True(t, strings.HasPrefix(m.FileURL, UploadURLPrefix))
	assert.True(t, strings.HasSuffix(m.FileURL, ".jpg"))

	stored, err := os.ReadFile(filepath.Join(f.cfg.Upload.Dir, strings.TrimPrefix(m.FileURL, UploadURLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(stored))

	agentView, err := svc.ListByAgent(f.ctx, newAgent.ID)
	require.NoError(t, err)
	require.Len(t, agentView, 1)
	require.NotNil(t, agentView[0].Farmer)
	assert.Equal(t, "farmer", agentView[0].Farmer.Name)

	mine, err := svc.ListByFarmer(f.ctx, farmer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUploadRejectsZip(t *testing.T) {
	f := newFixture(t)
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	svc := NewMediaService(f.db, f.cfg.Upload, f.log)

	_, err := svc.Upload(f.ctx, farmer.ID, fileHeader(t, "a.zip", "application/zip", []byte("PK")), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var count int64
	f.db.Model(&models.Media{}).Count(&count)
	assert.Zero(t, count)

	entries, err := os.ReadDir(f.cfg.Upload.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadSizeCap(t *testing.T) {
	f := newFixture(t)
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	cfg := f.cfg.Upload
	cfg.MaxBytes = 8
	svc := NewMediaService(f.db, cfg, f.log)

	_, err := svc.Upload(f.ctx, farmer.ID, fileHeader(t, "big.pdf", "application/pdf", []byte("0123456789")), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Upload(f.ctx, farmer.ID, nil, "")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestUploadWithoutAgent(t *testing.T) {
	f := newFixture(t)
	farmer := f.user("farmer", domain.RoleFarmer, "North")
	svc := NewMediaService(f.db, f.cfg.Upload, f.log)

	m, err := svc.Upload(f.ctx, farmer.ID, fileHeader(t, "clip.avi", "video/x-msvideo", []byte("avi")), "")
	require.NoError(t, err)
	assert.Nil(t, m.AgentID)
	assert.Equal(t, string(domain.FileVideo), m.FileType)
}

func TestClassifyMIME(t *testing.T) {
	ft, ok := ClassifyMIME("application/pdf; charset=binary")
	assert.True(t, ok)
	assert.Equal(t, domain.FilePDF, ft)

	for _, avi := range []string{"video/x-msvideo", "video/avi", "video/msvideo", "Video/AVI"} {
		ft, ok = ClassifyMIME(avi)
		assert.True(t, ok, avi)
		assert.Equal(t, domain.FileVideo, ft, avi)
	}

	_, ok = ClassifyMIME("text/plain")
	assert.False(t, ok)
	_, ok = ClassifyMIME("")
	assert.False(t, ok)
}
