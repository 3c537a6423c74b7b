package catalogue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/material"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// libraryFile is the shelf index of a refractiveindex.info tree.
const libraryFile = "library.yml"

type libraryShelf struct {
	Shelf   string        `yaml:"SHELF"`
	Name    string        `yaml:"name"`
	Content []libraryBook `yaml:"content"`
}

// libraryBook is a BOOK or a DIVIDER.
type libraryBook struct {
	Divider string        `yaml:"DIVIDER"`
	Book    string        `yaml:"BOOK"`
	Name    string        `yaml:"name"`
	Content []libraryPage `yaml:"content"`
}

// libraryPage is a PAGE or a DIVIDER.
type libraryPage struct {
	Divider string `yaml:"DIVIDER"`
	Page    string `yaml:"PAGE"`
	Name    string `yaml:"name"`
	Data    string `yaml:"data"`
}

// candidate is a file found by a scan, with the fields known before it is
// evaluated.
type candidate struct {
	entry Entry
	file  string
}

type source struct {
	database string
	enabled  bool
	scan     func(dir, database string) ([]candidate, error)
}

func (c *Catalogue) sources() []source {
	m := c.cfg.Modules
	return []source{
		{DatabaseRefractiveIndexInfo, m.RefractiveIndexInfo, scanLibrary},
		{DatabaseFilmetrics, m.Filmetrics, scanText},
		{DatabaseUserData, m.UserData, scanText},
	}
}

// Rebuild rescans every enabled sub-database and replaces the index.
// Aliases of entries that are still present are kept. On error the
// current index is left untouched.
func (c *Catalogue) Rebuild(ctx context.Context) error {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	start := time.Now()
	var entries []Entry
	for _, src := range c.sources() {
		if !src.enabled {
			continue
		}
		dir := filepath.Join(c.root, src.database)
		if !exists(dir) {
			c.logger.Warn("database directory missing, skipped", "database", src.database, "path", dir)
			continue
		}
		found, err := src.scan(dir, src.database)
		if err != nil {
			return fmt.Errorf("catalogue: scan %s: %w", src.database, err)
		}
		for _, cand := range found {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("catalogue: rebuild: %w", err)
			}
			e, err := c.evaluate(cand)
			if err != nil {
				if !c.cfg.SkipInvalid {
					return fmt.Errorf("catalogue: %s: %w", cand.file, err)
				}
				c.logger.Warn("invalid material skipped", "path", cand.file, "database", src.database, "err", err)
				continue
			}
			entries = append(entries, e)
		}
		c.logger.Debug("database scanned", "database", src.database, "files", len(found))
	}

	c.swap(entries, true)
	c.purge()
	c.logger.Info("catalogue rebuilt", "entries", len(entries), "duration", time.Since(start))
	return nil
}

// evaluate fills the range, metadata and reference n/k of a candidate.
func (c *Catalogue) evaluate(cand candidate) (Entry, error) {
	e := cand.entry
	t, err := spectrum.ParseType(e.SpectrumType)
	if err != nil {
		return Entry{}, err
	}
	m, err := material.FromFile(cand.file, material.WithSpectrum(t, e.Unit))
	if err != nil {
		return Entry{}, err
	}
	valid, err := m.MaxValidRange()
	if err != nil {
		return Entry{}, err
	}
	// Dataset headers may override the material unit; bounds follow the entry.
	if valid, err = valid.ConvertTo(t, e.Unit); err != nil {
		return Entry{}, err
	}
	e.SpectrumLowerBound, e.SpectrumUpperBound = valid.Min(), valid.Max()

	e.Reference, e.Comment = m.Meta.Reference, m.Meta.Comment
	if e.FullName == "" {
		e.FullName = m.Meta.FullName
	}
	if e.Author == "" {
		e.Author = m.Meta.Author
	}

	nk, err := m.NK(c.ref)
	switch {
	case err == nil:
		v := nk.Scalar()
		e.NReference, e.KReference = real(v), imag(v)
	case errors.Is(err, core.ErrRange):
		e.NReference, e.KReference = math.NaN(), math.NaN()
	default:
		return Entry{}, err
	}
	return e, nil
}

// scanLibrary walks library.yml. Page paths are stored relative to the
// database directory, including the data/ prefix.
func scanLibrary(dir, database string) ([]candidate, error) {
	raw, err := os.ReadFile(filepath.Join(dir, libraryFile))
	if err != nil {
		return nil, err
	}
	var shelves []libraryShelf
	if err := yaml.Unmarshal(raw, &shelves); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", libraryFile, err, core.ErrFormat)
	}

	var out []candidate
	for _, shelf := range shelves {
		for _, book := range shelf.Content {
			if book.Book == "" {
				continue
			}
			for _, page := range book.Content {
				if page.Data == "" {
					continue
				}
				rel := path.Join("data", page.Data)
				out = append(out, candidate{
					file: filepath.Join(dir, filepath.FromSlash(rel)),
					entry: Entry{
						Name:         book.Book,
						FullName:     book.Name,
						Author:       page.Page,
						SpectrumType: spectrum.Wavelength.String(),
						Unit:         "micrometer",
						Path:         rel,
						Database:     database,
					},
				})
			}
		}
	}
	return out, nil
}

// scanText lists the .txt and .csv files directly inside dir.
func scanText(dir, database string) ([]candidate, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []candidate
	for _, item := range items {
		if item.IsDir() || !isTextFile(item.Name()) {
			continue
		}
		name := item.Name()
		out = append(out, candidate{
			file: filepath.Join(dir, name),
			entry: Entry{
				Name:         strings.TrimSuffix(name, filepath.Ext(name)),
				SpectrumType: spectrum.Wavelength.String(),
				Unit:         "nanometer",
				Path:         name,
				Database:     database,
			},
		})
	}
	return out, nil
}

func isTextFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".csv":
		return true
	}
	return false
}
