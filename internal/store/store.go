// Package store persists court fit results in SQLite.
package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"
)

// schema.sql defines the court_fits table.
//
//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by Get for an unknown run.
var ErrNotFound = errors.New("fit not found")

// Fit is one stored fitting run.
type Fit struct {
	RunID           string
	ImagePath       string
	Court           string
	Score           float64
	SearchScore     float64
	H               geometry.Homography
	HorizontalLines int
	VerticalLines   int
	CreatedAt       time.Time
}

// FitDB is a SQLite-backed store of fits.
type FitDB struct {
	*sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*FitDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	monitoring.Logf("initialized fit database %s", path)
	return &FitDB{db}, nil
}

// Insert stores f, assigning a run ID and creation time when missing, and
// returns the run ID.
func (fdb *FitDB) Insert(f *Fit) (string, error) {
	if f.RunID == "" {
		f.RunID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	h, err := json.Marshal(f.H)
	if err != nil {
		return "", fmt.Errorf("failed to encode homography: %w", err)
	}

	query := `
		INSERT INTO court_fits (run_id, image_path, court, score, search_score, homography,
			horizontal_lines, vertical_lines, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = fdb.Exec(query, f.RunID, f.ImagePath, f.Court, f.Score, f.SearchScore, string(h),
		f.HorizontalLines, f.VerticalLines, f.CreatedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to insert fit: %w", err)
	}
	return f.RunID, nil
}

const selectFits = `
	SELECT run_id, image_path, court, score, search_score, homography,
		horizontal_lines, vertical_lines, created_at_ns
	FROM court_fits
`

type scanner interface {
	Scan(dest ...any) error
}

func scanFit(row scanner) (*Fit, error) {
	var (
		f         Fit
		h         string
		createdNs int64
	)
	if err := row.Scan(&f.RunID, &f.ImagePath, &f.Court, &f.Score, &f.SearchScore, &h,
		&f.HorizontalLines, &f.VerticalLines, &createdNs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(h), &f.H); err != nil {
		return nil, fmt.Errorf("failed to decode homography of %s: %w", f.RunID, err)
	}
	f.CreatedAt = time.Unix(0, createdNs)
	return &f, nil
}

// Get returns the fit with the given run ID.
func (fdb *FitDB) Get(runID string) (*Fit, error) {
	f, err := scanFit(fdb.QueryRow(selectFits+" WHERE run_id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fit: %w", err)
	}
	return f, nil
}

// List returns fits newest first. An empty imagePath lists all images;
// limit <= 0 means no limit.
func (fdb *FitDB) List(imagePath string, limit int) ([]*Fit, error) {
	query := selectFits
	var args []any
	if imagePath != "" {
		query += " WHERE image_path = ?"
		args = append(args, imagePath)
	}
	query += " ORDER BY created_at_ns DESC, run_id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := fdb.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fits: %w", err)
	}
	defer rows.Close()

	var fits []*Fit
	for rows.Next() {
		f, err := scanFit(rows)
		if err != nil {
			return nil, err
		}
		fits = append(fits, f)
	}
	return fits, rows.Err()
}
