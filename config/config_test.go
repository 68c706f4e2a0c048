package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "nope"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, s.Settings().TargetFolder, "target folder should default to the working directory")
	assert.Equal(t, DefaultWindowGeometry, s.Settings().WindowGeometry)
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	require.NoError(t, s.Update(func(st *Settings) {
		st.TargetFolder = "/tmp/x"
		st.WindowGeometry = "800x600"
		st.LastCities = "Annecy:Annecy:N"
	}))

	reloaded := NewStore(dir)
	assert.Equal(t, "/tmp/x", reloaded.Settings().TargetFolder)
	assert.Equal(t, "800x600", reloaded.Settings().WindowGeometry)
	assert.Equal(t, "Annecy:Annecy:N", reloaded.Settings().LastCities)
}

func TestStoreCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte("{not json"), 0o644))

	s := NewStore(dir)
	assert.Equal(t, DefaultWindowGeometry, s.Settings().WindowGeometry)
	assert.NotEmpty(t, s.Settings().TargetFolder)

	// A save after a corrupt load must produce a readable file again.
	require.NoError(t, s.Save())
	reloaded := NewStore(dir)
	assert.Equal(t, s.Settings(), reloaded.Settings())
}

func TestStorePartialFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(`{"last_title":"Lac"}`), 0o644))

	s := NewStore(dir)
	assert.Equal(t, "Lac", s.Settings().LastTitle)
	assert.Equal(t, DefaultWindowGeometry, s.Settings().WindowGeometry, "missing fields keep their defaults")
	assert.NotEmpty(t, s.Settings().TargetFolder)
}

func TestStoreSettersPersistImmediately(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	require.NoError(t, s.SetTargetFolder("/srv/photos"))
	require.NoError(t, s.SetWindowGeometry("1024x768"))

	reloaded := NewStore(dir)
	assert.Equal(t, "/srv/photos", reloaded.Settings().TargetFolder)
	assert.Equal(t, "1024x768", reloaded.Settings().WindowGeometry)
}
