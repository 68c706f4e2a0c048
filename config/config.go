// Package config persists the small per-user settings record and defines
// application-wide constants.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carnetphoto/carnet/util/log"
)

// Settings is the persistent user record. Every field carries a default so
// that a missing or partially filled file loads cleanly.
type Settings struct {
	TargetFolder   string `json:"target_folder"`
	WindowGeometry string `json:"window_geometry"`
	LastGPXFile    string `json:"last_gpx_file"`
	LastOutputName string `json:"last_output_name"`
	LastCities     string `json:"last_cities"`
	LastTitle      string `json:"last_title"`
	LastMargin     string `json:"last_margin"`
}

// Store loads and saves Settings under a base directory. Callers own the
// instance; there is no package-level state.
type Store struct {
	dir      string
	settings Settings
}

// DefaultDir returns the per-user settings directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, SettingsDirName), nil
}

// NewStore creates a store rooted at dir and loads the settings file.
// A missing file yields defaults. A corrupt file yields defaults with a
// warning; it is never fatal.
func NewStore(dir string) *Store {
	s := &Store{dir: dir, settings: defaults()}
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read settings file %s: %v. Using defaults.", path, err)
		}
		return s
	}

	loaded := defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("Settings file %s is corrupt: %v. Using defaults.", path, err)
		return s
	}
	if loaded.TargetFolder == "" {
		loaded.TargetFolder = s.settings.TargetFolder
	}
	if loaded.WindowGeometry == "" {
		loaded.WindowGeometry = DefaultWindowGeometry
	}
	s.settings = loaded
	return s
}

func defaults() Settings {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Settings{
		TargetFolder:   wd,
		WindowGeometry: DefaultWindowGeometry,
	}
}

// Path returns the settings file path for this store.
func (s *Store) Path() string {
	return filepath.Join(s.dir, SettingsFileName)
}

// Dir returns the settings directory for this store.
func (s *Store) Dir() string {
	return s.dir
}

// Settings returns a copy of the current record.
func (s *Store) Settings() Settings {
	return s.settings
}

// Save writes the settings file, creating the directory if needed. The file
// is written to a temporary sibling first and renamed into place so a crash
// mid-write cannot corrupt it.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// Update applies fn to the record and persists the result immediately.
func (s *Store) Update(fn func(*Settings)) error {
	fn(&s.settings)
	return s.Save()
}

// SetTargetFolder records the output folder and persists it.
func (s *Store) SetTargetFolder(folder string) error {
	return s.Update(func(st *Settings) { st.TargetFolder = folder })
}

// SetWindowGeometry records the window geometry and persists it.
func (s *Store) SetWindowGeometry(geometry string) error {
	return s.Update(func(st *Settings) { st.WindowGeometry = geometry })
}
