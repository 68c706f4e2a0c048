package exifmeta

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(40, 30, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	buf := new(bytes.Buffer)
	require.NoError(t, imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(95)))
	return buf.Bytes()
}

func TestEmbedBytesWritesDates(t *testing.T) {
	taken := time.Date(2023, 7, 14, 10, 30, 0, 0, time.Local)
	data, err := EmbedBytes(encodeTestJPEG(t), Record{
		CaptureDate: taken,
		Rating:      5,
		Title:       "Sortie vélo",
	})
	require.NoError(t, err)

	x, err := exif.Decode(bytes.NewReader(data))
	require.NoError(t, err, "embedded jpeg should carry a readable exif block")

	dt, err := x.DateTime()
	require.NoError(t, err)
	assert.True(t, taken.Equal(dt), "expected %v, got %v", taken, dt)

	tag, err := x.Get(exif.ImageDescription)
	require.NoError(t, err)
	desc, err := tag.StringVal()
	require.NoError(t, err)
	assert.Equal(t, "Sortie vélo", desc)

	soft, err := x.Get(exif.Software)
	require.NoError(t, err)
	name, err := soft.StringVal()
	require.NoError(t, err)
	assert.Equal(t, "Carnet", name)
}

func TestEmbedBytesWithoutTitle(t *testing.T) {
	data, err := EmbedBytes(encodeTestJPEG(t), Record{
		CaptureDate: time.Date(2022, 1, 2, 8, 0, 0, 0, time.Local),
		Rating:      5,
	})
	require.NoError(t, err)

	x, err := exif.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = x.Get(exif.ImageDescription)
	assert.Error(t, err, "no description should be written without a title")
}

func TestEmbedBytesRejectsGarbage(t *testing.T) {
	_, err := EmbedBytes([]byte("not a jpeg"), Record{CaptureDate: time.Now()})
	assert.Error(t, err)
}

func TestCaptureDateRoundTrip(t *testing.T) {
	taken := time.Date(2021, 6, 30, 18, 45, 12, 0, time.Local)
	data, err := EmbedBytes(encodeTestJPEG(t), Record{CaptureDate: taken})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	dt, err := CaptureDate(path)
	require.NoError(t, err)
	assert.True(t, taken.Equal(dt), "expected %v, got %v", taken, dt)
}

func TestCaptureDateFallsBackToModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	require.NoError(t, os.WriteFile(path, encodeTestJPEG(t), 0o644))
	stamp := time.Date(2020, 3, 15, 12, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	dt, err := CaptureDate(path)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(dt), "expected %v, got %v", stamp, dt)
}

func TestCaptureDateMissingFile(t *testing.T) {
	_, err := CaptureDate(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestEarliestCaptureDate(t *testing.T) {
	dir := t.TempDir()
	older := time.Date(2019, 5, 1, 9, 0, 0, 0, time.Local)
	newer := time.Date(2019, 5, 3, 9, 0, 0, 0, time.Local)

	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(a, encodeTestJPEG(t), 0o644))
	require.NoError(t, os.WriteFile(b, encodeTestJPEG(t), 0o644))
	require.NoError(t, os.Chtimes(a, newer, newer))
	require.NoError(t, os.Chtimes(b, older, older))

	dt, err := EarliestCaptureDate([]string{a, b})
	require.NoError(t, err)
	assert.True(t, older.Equal(dt))

	_, err = EarliestCaptureDate(nil)
	assert.Error(t, err)
}
