// Package media selects local video or image files and encodes them for
// inline transport to the model.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedType is returned for files that are neither video nor image.
var ErrUnsupportedType = errors.New("unsupported media type")

// fallbackVideoType is declared when sniffing cannot identify a file that
// carries a video extension.
const fallbackVideoType = "video/mp4"

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
}

// Media is a reference to a selected local file. It holds no open handle.
type Media struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

// Encoded is the file content ready to be attached to a request.
type Encoded struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Open resolves path, checks that it is a regular file and detects its type.
func Open(path string) (*Media, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return nil, fmt.Errorf("no file path given")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mimeType, err := detectType(path)
	if err != nil {
		return nil, err
	}

	return &Media{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mimeType,
	}, nil
}

func detectType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect media type: %w", err)
	}

	// Drop parameters such as "; charset=binary"
	detected := strings.SplitN(mt.String(), ";", 2)[0]

	switch {
	case strings.HasPrefix(detected, "video/"), strings.HasPrefix(detected, "image/"):
		return detected, nil
	case videoExtensions[strings.ToLower(filepath.Ext(path))]:
		return fallbackVideoType, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, detected)
}

// IsVideo reports whether the media is a video.
func (m *Media) IsVideo() bool {
	return strings.HasPrefix(m.MIMEType, "video/")
}

// Summary is the one-line preview shown in the input form.
func (m *Media) Summary() string {
	return fmt.Sprintf("%s · %s · %s", m.Name, humanize.Bytes(uint64(m.Size)), m.MIMEType)
}

// Encode reads the whole file. No size limit is applied.
func (m *Media) Encode() (*Encoded, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}
	return &Encoded{Name: m.Name, MIMEType: m.MIMEType, Data: data}, nil
}

// IsVideo reports whether the encoded content is a video.
func (e *Encoded) IsVideo() bool {
	return strings.HasPrefix(e.MIMEType, "video/")
}

// Base64 returns the standard base64 text encoding of the content.
func (e *Encoded) Base64() string {
	return base64.StdEncoding.EncodeToString(e.Data)
}

// DataURL returns the content as a data: URL.
func (e *Encoded) DataURL() string {
	return "data:" + e.MIMEType + ";base64," + e.Base64()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
