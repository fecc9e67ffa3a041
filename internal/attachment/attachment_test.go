package attachment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMIMEType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"shot.jpg", "image/jpeg"},
		{"shot.JPEG", "image/jpeg"},
		{"shot.png", "image/png"},
		{"SHOT.PNG", "image/png"},
		{"anim.gif", "image/gif"},
		{"pic.webp", "image/webp"},
		{"pic.heic", "image/jpeg"},
		{"noext", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MIMEType(tt.path))
		})
	}
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeImage(t, "chat.png")

	img, err := Load(`"` + path + `"`)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "chat.png", img.Metadata.Name)
	assert.Equal(t, "16 B", img.Metadata.FileSizeHuman())
	assert.Equal(t, []byte("fake image bytes"), img.LLM().Data)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = Load(t.TempDir())
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSetMaxImages(t *testing.T) {
	var s Set

	_, err := s.AddPath(writeImage(t, "a.png"))
	require.NoError(t, err)
	_, err = s.AddPath(writeImage(t, "b.jpg"))
	require.NoError(t, err)
	assert.True(t, s.Full())

	_, err = s.AddPath(writeImage(t, "c.png"))
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Equal(t, 2, s.Len())

	images := s.Images()
	require.Len(t, images, 2)
	assert.Equal(t, "image/png", images[0].MIMEType)
	assert.Equal(t, "image/jpeg", images[1].MIMEType)

	assert.True(t, s.Remove(0))
	assert.False(t, s.Remove(5))
	assert.Equal(t, "b.jpg", s.Files()[0].Metadata.Name)

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestFileSizeHuman(t *testing.T) {
	assert.Equal(t, "512 B", Metadata{SizeBytes: 512}.FileSizeHuman())
	assert.Equal(t, "1.5 KB", Metadata{SizeBytes: 1536}.FileSizeHuman())
	assert.Equal(t, "2.0 MB", Metadata{SizeBytes: 2 << 20}.FileSizeHuman())
}
