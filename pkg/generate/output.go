package generate

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// JPEGQuality is the encode quality for generated files.
const JPEGQuality = 95

// EnsureJPEGName appends the .jpg extension unless the name already carries
// a JPEG extension in any case.
func EnsureJPEGName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".jpg" || ext == ".jpeg" {
		return name
	}
	return name + ".jpg"
}

// CheckTarget verifies the target folder exists and is writable, creating
// it if needed. Generators call it after input validation and before any
// expensive work.
func (e *Env) CheckTarget() error {
	if err := os.MkdirAll(e.TargetDir, 0o755); err != nil {
		return &IOError{Op: "creating target folder", Err: err}
	}
	probe := filepath.Join(e.TargetDir, ".carnet-probe-"+uuid.New().String())
	f, err := os.Create(probe)
	if err != nil {
		return &IOError{Op: "target folder is not writable", Err: err}
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// EncodeJPEG renders img as JPEG bytes at the output quality, so callers can
// embed metadata before the file hits disk.
func EncodeJPEG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, &IOError{Op: "encoding jpeg", Err: err}
	}
	return buf.Bytes(), nil
}

// WriteJPEG encodes img into the target folder under name (extension
// normalized) and returns the final path.
func (e *Env) WriteJPEG(name string, img image.Image) (string, error) {
	data, err := EncodeJPEG(img)
	if err != nil {
		return "", err
	}
	return e.WriteJPEGBytes(name, data)
}

// WriteJPEGBytes writes already-encoded JPEG data into the target folder
// under name (extension normalized) and returns the final path. The file is
// written to a uniquely suffixed temporary sibling and renamed into place,
// so a failed generation never leaves a half-written output behind.
func (e *Env) WriteJPEGBytes(name string, data []byte) (string, error) {
	final := filepath.Join(e.TargetDir, EnsureJPEGName(name))
	tmp := final + ".tmp-" + uuid.New().String()

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", &IOError{Op: fmt.Sprintf("creating %s", tmp), Err: err}
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", &IOError{Op: fmt.Sprintf("replacing %s", final), Err: err}
	}
	return final, nil
}
