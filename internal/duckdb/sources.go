package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an input file. ModTime
// is kept at the microsecond precision of a DuckDB TIMESTAMP.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().Truncate(time.Microsecond),
	}, nil
}

// RecordSources replaces the recorded input files of the stored models.
func (s *Store) RecordSources(fps []FileFingerprint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sources"); err != nil {
		return fmt.Errorf("clear sources: %w", err)
	}
	for _, fp := range fps {
		if _, err := tx.Exec("INSERT INTO sources VALUES (?, ?, ?)", fp.Path, fp.Size, fp.ModTime); err != nil {
			return fmt.Errorf("record source %s: %w", fp.Path, err)
		}
	}
	return tx.Commit()
}

// Sources returns the recorded input files ordered by path.
func (s *Store) Sources() ([]FileFingerprint, error) {
	rows, err := s.db.Query("SELECT path, size, mod_time FROM sources ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var fps []FileFingerprint
	for rows.Next() {
		var fp FileFingerprint
		if err := rows.Scan(&fp.Path, &fp.Size, &fp.ModTime); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		fps = append(fps, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return fps, nil
}

// Unchanged reports whether the recorded sources match fps exactly.
func (s *Store) Unchanged(fps []FileFingerprint) (bool, error) {
	stored, err := s.Sources()
	if err != nil {
		return false, err
	}
	if len(stored) != len(fps) {
		return false, nil
	}
	byPath := make(map[string]FileFingerprint, len(stored))
	for _, fp := range stored {
		byPath[fp.Path] = fp
	}
	for _, fp := range fps {
		old, ok := byPath[fp.Path]
		if !ok || old.Size != fp.Size || !old.ModTime.Equal(fp.ModTime.Truncate(time.Microsecond)) {
			return false, nil
		}
	}
	return true, nil
}
