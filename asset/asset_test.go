package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/image/font/gofont/goregular"
)

func TestTitleFaceNeverNil(t *testing.T) {
	am := NewManager("")
	face := am.TitleFace(24)
	require.NotNil(t, face)

	// Same size must reuse the cached face.
	assert.Equal(t, face, am.TitleFace(24))
}

func TestTitleFacePrefersInjectedFont(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "title.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0o644))

	am := NewManager("")
	am.AddFontPath(fontPath)

	face := am.TitleFace(32)
	require.NotNil(t, face)
	metrics := face.Metrics()
	assert.Greater(t, metrics.Height.Ceil(), 0)
}

func TestTitleFaceSkipsBrokenFont(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.ttf")
	require.NoError(t, os.WriteFile(broken, []byte("not a font"), 0o644))

	am := NewManager("")
	am.AddFontPath(broken)

	face := am.TitleFace(18)
	require.NotNil(t, face, "a broken candidate must fall through to the bundled font")
}

func TestGetModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "facefinder"), []byte{1, 2, 3}, 0o644))

	am := NewManager(dir)
	data, err := am.GetModel("facefinder")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = am.GetModel("missing")
	assert.Error(t, err)

	_, err = NewManager("").GetModel("facefinder")
	assert.Error(t, err)
}
