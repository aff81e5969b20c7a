package backup

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNoDatabase = errors.New("no database file to back up")

// Info describes one stored backup.
type Info struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Service snapshots the SQLite database file into a backup directory and
// prunes old snapshots past a retention count.
type Service struct {
	DBPath string
	Dir    string
	Retain int
}

// Create writes a gzip snapshot of the database file and prunes old backups.
func (s *Service) Create() (Info, error) {
	if strings.TrimSpace(s.DBPath) == "" {
		return Info{}, ErrNoDatabase
	}
	src, err := os.Open(s.DBPath)
	if err != nil {
		return Info{}, fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Info{}, err
	}

	name := fmt.Sprintf("db-%s-%s.gz", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return Info{}, err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		os.Remove(path)
		return Info{}, err
	}
	if err := gz.Close(); err != nil {
		os.Remove(path)
		return Info{}, err
	}

	if err := s.prune(); err != nil {
		return Info{}, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Name: name, SizeBytes: st.Size(), CreatedAt: st.ModTime().UTC()}, nil
}

// List returns stored backups, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".gz") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{Name: e.Name(), SizeBytes: info.Size(), CreatedAt: info.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// prune removes the oldest backups beyond the retention count.
func (s *Service) prune() error {
	if s.Retain <= 0 {
		return nil
	}
	backups, err := s.List()
	if err != nil {
		return err
	}
	for i := s.Retain; i < len(backups); i++ {
		if err := os.Remove(filepath.Join(s.Dir, backups[i].Name)); err != nil {
			return err
		}
	}
	return nil
}
