package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVideo(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0644))
	return path
}

func TestCreateAndRevoke(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	video := writeVideo(t, "Match.MP4")

	h, err := reg.Create(video)
	require.NoError(t, err)

	assert.Equal(t, reg.Dir(), filepath.Dir(h.Path()))
	assert.Equal(t, ".mp4", filepath.Ext(h.Path()))
	assert.Equal(t, video, h.Target())
	data, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	assert.Equal(t, "not really a video", string(data))

	require.NoError(t, h.Revoke())
	assert.True(t, h.Revoked())
	_, err = os.Lstat(h.Path())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(video)
	assert.NoError(t, err, "the original file is untouched")

	assert.ErrorIs(t, h.Revoke(), ErrRevoked)
}

func TestHandlesAreUnique(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	video := writeVideo(t, "a.mkv")

	h1, err := reg.Create(video)
	require.NoError(t, err)
	h2, err := reg.Create(video)
	require.NoError(t, err)

	assert.NotEqual(t, h1.ID(), h2.ID())
	assert.NotEqual(t, h1.Path(), h2.Path())

	require.NoError(t, h1.Revoke())
	_, err = os.Stat(h2.Path())
	assert.NoError(t, err, "revoking one handle leaves others alive")
}

func TestCreateRejectsBadPaths(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Create(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = reg.Create(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRegularFile)
}

func TestRegistryClose(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	_, err = reg.Create(writeVideo(t, "a.mp4"))
	require.NoError(t, err)

	require.NoError(t, reg.Close())
	_, err = os.Stat(reg.Dir())
	assert.True(t, os.IsNotExist(err))
}
