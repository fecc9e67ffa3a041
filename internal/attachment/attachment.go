// Package attachment loads screenshot files for the multimodal request.
package attachment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sant0-9/daptalk/internal/llm"
)

// MaxImages is the number of screenshots a single request may carry
const MaxImages = 2

// MaxImageBytes caps a single screenshot
const MaxImageBytes = 20 << 20

var (
	ErrTooManyImages = fmt.Errorf("at most %d images can be attached", MaxImages)
	ErrTooLarge      = errors.New("image is too large")
	ErrEmpty         = errors.New("image file is empty")
)

// Image is a screenshot read from disk
type Image struct {
	Path     string
	MIMEType string
	Data     []byte
	Metadata Metadata
}

type Metadata struct {
	Name      string
	SizeBytes int64
	AddedAt   time.Time
}

// FileSizeHuman returns human-readable file size
func (m Metadata) FileSizeHuman() string {
	bytes := m.SizeBytes
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

// MIMEType maps a file extension to an image type. Unknown extensions are
// sent as JPEG.
func MIMEType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ExpandPath resolves a leading ~ and surrounding quotes left by drag-and-drop
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, `"'`)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Load reads an image file
func Load(path string) (*Image, error) {
	path = ExpandPath(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open image: %s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, ErrEmpty
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, Metadata{SizeBytes: info.Size()}.FileSizeHuman())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return &Image{
		Path:     path,
		MIMEType: MIMEType(path),
		Data:     data,
		Metadata: Metadata{
			Name:      filepath.Base(path),
			SizeBytes: info.Size(),
			AddedAt:   time.Now(),
		},
	}, nil
}

// LLM converts the image to a gateway image part
func (i *Image) LLM() llm.Image {
	return llm.Image{MIMEType: i.MIMEType, Data: i.Data}
}

// Set holds the screenshots picked for the next request
type Set struct {
	images []*Image
}

func (s *Set) Add(img *Image) error {
	if len(s.images) >= MaxImages {
		return ErrTooManyImages
	}
	s.images = append(s.images, img)
	return nil
}

// AddPath loads path and adds it
func (s *Set) AddPath(path string) (*Image, error) {
	if s.Full() {
		return nil, ErrTooManyImages
	}
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return img, s.Add(img)
}

func (s *Set) Remove(i int) bool {
	if i < 0 || i >= len(s.images) {
		return false
	}
	s.images = append(s.images[:i], s.images[i+1:]...)
	return true
}

func (s *Set) Clear() {
	s.images = nil
}

func (s *Set) Len() int {
	return len(s.images)
}

func (s *Set) Full() bool {
	return len(s.images) >= MaxImages
}

// Files returns the attached images in order
func (s *Set) Files() []*Image {
	out := make([]*Image, len(s.images))
	copy(out, s.images)
	return out
}

// Images returns the gateway parts in attach order
func (s *Set) Images() []llm.Image {
	out := make([]llm.Image, len(s.images))
	for i, img := range s.images {
		out[i] = img.LLM()
	}
	return out
}
