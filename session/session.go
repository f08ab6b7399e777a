// Package session persists the last view state between runs: zoom level,
// viewport position, marker fix and heading. Stored msgpack-encoded and
// flate-compressed in the user cache directory.
package session

import (
	"compress/flate"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const stateFile = "session"

// State is the view state restored at startup.
type State struct {
	Level     int
	WorldX    int
	WorldY    int
	MarkerLat float64
	MarkerLng float64
	Heading   float64
}

func statePath() (string, error) {
	cd, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cd, "movingmap", stateFile), nil
}

// Save writes the state, creating the cache directory as needed.
func Save(st *State) error {
	path, err := statePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fw, err := flate.NewWriter(f, flate.BestSpeed)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(fw).Encode(st); err != nil {
		return err
	}
	return fw.Close()
}

// Load reads the saved state and its modification time. A missing file is
// an error the caller treats as "first run".
func Load() (*State, time.Time, error) {
	path, err := statePath()
	if err != nil {
		return nil, time.Time{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, err
	}

	fr := flate.NewReader(f)
	defer fr.Close()

	var st State
	if err := msgpack.NewDecoder(fr).Decode(&st); err != nil {
		return nil, time.Time{}, err
	}
	return &st, fi.ModTime(), nil
}
