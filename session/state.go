package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sauerbraten/jsonfile"
)

// deviceState mirrors the on-disk state file.
type deviceState struct {
	DeviceID string `json:"device_id"`
}

// FileState persists the device identifier across process restarts.
//
// The file holds a single JSON object; comments in the file are tolerated on
// read. Only the device id is stored, never session or key material.
type FileState struct {
	path string
}

// NewFileState returns a FileState backed by the given path.
func NewFileState(path string) *FileState {
	return &FileState{path: path}
}

// Load reads the persisted device id. A missing file is not an error; it
// returns an empty id.
func (f *FileState) Load() (string, error) {
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return "", nil
	}

	var st deviceState
	if err := jsonfile.ParseFile(f.path, &st); err != nil {
		return "", fmt.Errorf("parse %s: %w", f.path, err)
	}
	return st.DeviceID, nil
}

// Save writes the device id, creating parent directories as needed.
func (f *FileState) Save(deviceID string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	b, err := json.MarshalIndent(deviceState{DeviceID: deviceID}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(f.path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
