package catalogue

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

const schema = `CREATE TABLE IF NOT EXISTS materials (
	position INTEGER PRIMARY KEY,
	alias TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	full_name TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	comment TEXT NOT NULL DEFAULT '',
	reference TEXT NOT NULL DEFAULT '',
	spectrum_type TEXT NOT NULL,
	unit TEXT NOT NULL,
	spectrum_lower_bound REAL,
	spectrum_upper_bound REAL,
	n_reference REAL,
	k_reference REAL,
	path TEXT NOT NULL,
	database_name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_materials_alias ON materials(alias);`

const selectEntries = `SELECT alias, name, full_name, author, comment, reference,
	spectrum_type, unit, spectrum_lower_bound, spectrum_upper_bound,
	n_reference, k_reference, path, database_name FROM materials ORDER BY position`

const insertEntry = `INSERT INTO materials (position, alias, name, full_name, author,
	comment, reference, spectrum_type, unit, spectrum_lower_bound,
	spectrum_upper_bound, n_reference, k_reference, path, database_name)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Save writes the index to the catalogue file. The file is replaced
// atomically.
func (c *Catalogue) Save() error {
	entries := c.Entries()
	if err := save(c.file, entries); err != nil {
		return fmt.Errorf("catalogue: save %s: %w", c.file, err)
	}
	c.logger.Debug("catalogue saved", "path", c.file, "entries", len(entries))
	return nil
}

func isSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		return true
	}
	return false
}

func load(path string) ([]Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if isSQLite(path) {
		return loadSQLite(path)
	}
	return loadCSV(path)
}

func save(path string, entries []Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if isSQLite(path) {
		// sqlite opens the file itself; an empty file is a valid database.
		if err = tmp.Close(); err == nil {
			err = saveSQLite(name, entries)
		}
	} else {
		err = writeCSV(tmp, entries)
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
	}
	if err == nil {
		err = os.Rename(name, path)
	}
	if err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func writeCSV(f *os.File, entries []Entry) error {
	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write(e.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func loadCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, core.ErrFormat)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if !slices.Equal(rows[0], Columns) {
		return nil, fmt.Errorf("unexpected header %v: %w", rows[0], core.ErrFormat)
	}
	entries := make([]Entry, 0, len(rows)-1)
	for i, rec := range rows[1:] {
		e, err := entryFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", i+2, err, core.ErrFormat)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func saveSQLite(path string, entries []Entry) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertEntry)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, e := range entries {
		_, err := stmt.Exec(i, e.Alias, e.Name, e.FullName, e.Author, e.Comment,
			e.Reference, e.SpectrumType, e.Unit,
			nullFloat(e.SpectrumLowerBound), nullFloat(e.SpectrumUpperBound),
			nullFloat(e.NReference), nullFloat(e.KReference), e.Path, e.Database)
		if err != nil {
			return fmt.Errorf("insert %s: %w", e.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return db.Close()
}

func loadSQLite(path string) ([]Entry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(selectEntries)
	if err != nil {
		return nil, fmt.Errorf("query: %v: %w", err, core.ErrFormat)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e              Entry
			lo, hi, nr, kr sql.NullFloat64
		)
		err := rows.Scan(&e.Alias, &e.Name, &e.FullName, &e.Author, &e.Comment,
			&e.Reference, &e.SpectrumType, &e.Unit, &lo, &hi, &nr, &kr, &e.Path, &e.Database)
		if err != nil {
			return nil, err
		}
		e.SpectrumLowerBound, e.SpectrumUpperBound = floatOrNaN(lo), floatOrNaN(hi)
		e.NReference, e.KReference = floatOrNaN(nr), floatOrNaN(kr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// nullFloat stores NaN as NULL.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
