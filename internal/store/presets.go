// Package store provides a SQLite-backed library of named product presets.
// Only inputs are stored; calculated results never are.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/pricecraft/internal/pricing"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when no preset matches.
var ErrNotFound = errors.New("preset not found")

// Preset is a named set of pricing inputs.
type Preset struct {
	ID        string
	Name      string
	Inputs    pricing.Inputs
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store provides SQLite-backed preset storage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the preset database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating preset dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening preset db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the preset database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save validates in and stores it under name. An existing preset with the
// same name (case-insensitive) is overwritten and keeps its ID.
func (s *Store) Save(name string, in pricing.Inputs, notes string) (Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, errors.New("preset name is required")
	}
	if err := pricing.Validate(in); err != nil {
		return Preset{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Preset{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC().Truncate(time.Second)
	p := Preset{
		ID:        uuid.NewString(),
		Name:      name,
		Inputs:    in,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var existingID, created string
	err = tx.QueryRow("SELECT preset_id, created_at FROM presets WHERE name = ?", name).Scan(&existingID, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return Preset{}, err
	default:
		p.ID = existingID
		p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO presets
		(preset_id, name, material_cost, hours_worked, labor_rate, uniqueness, demand,
		 selling_price, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, in.MaterialCost, in.HoursWorked, in.LaborRate, in.Uniqueness, in.Demand,
		in.SellingPrice, p.Notes, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Preset{}, fmt.Errorf("saving preset %q: %w", name, err)
	}

	return p, tx.Commit()
}

const selectPreset = `SELECT
	preset_id, name, material_cost, hours_worked, labor_rate, uniqueness, demand,
	selling_price, notes, created_at, updated_at
	FROM presets`

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (Preset, error) {
	var p Preset
	var created, updated string
	err := row.Scan(
		&p.ID, &p.Name, &p.Inputs.MaterialCost, &p.Inputs.HoursWorked, &p.Inputs.LaborRate,
		&p.Inputs.Uniqueness, &p.Inputs.Demand, &p.Inputs.SellingPrice, &p.Notes,
		&created, &updated,
	)
	if err != nil {
		return Preset{}, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return p, nil
}

// Get finds a preset by name (case-insensitive) or ID.
func (s *Store) Get(nameOrID string) (Preset, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	row := s.db.QueryRow(selectPreset+" WHERE name = ? OR preset_id = ?", nameOrID, nameOrID)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, nameOrID)
	}
	return p, err
}

// List returns all presets, most recently updated first.
func (s *Store) List() ([]Preset, error) {
	rows, err := s.db.Query(selectPreset + " ORDER BY updated_at DESC, name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var presets []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// Delete removes a preset by name or ID.
func (s *Store) Delete(nameOrID string) error {
	nameOrID = strings.TrimSpace(nameOrID)
	res, err := s.db.Exec("DELETE FROM presets WHERE name = ? OR preset_id = ?", nameOrID, nameOrID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, nameOrID)
	}
	return nil
}

// Count returns the number of stored presets.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM presets").Scan(&count)
	return count, err
}
