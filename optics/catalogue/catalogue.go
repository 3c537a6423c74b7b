package catalogue

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cwbudde/algo-dispersion/internal/config"
	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/material"
	"github.com/cwbudde/algo-dispersion/optics/matfile"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Option configures a Catalogue.
type Option func(*Catalogue)

// WithLogger sets the logger used for rebuild and watcher events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalogue) {
		if l != nil {
			c.logger = l
		}
	}
}

// Catalogue is an in-memory index of material files below a root
// directory. It is safe for concurrent use; rebuilds are serialized.
type Catalogue struct {
	cfg  config.Config
	root string
	file string
	ref  *spectrum.Spectrum

	logger *slog.Logger
	cache  *lru.Cache[string, *matfile.Record]

	rebuildMu sync.Mutex

	mu      sync.RWMutex
	entries []Entry
	aliases map[string]int
}

// Open validates cfg and loads the saved index if the catalogue file
// exists. A missing file yields an empty catalogue.
func Open(cfg config.Config, opts ...Option) (*Catalogue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("catalogue: %w", err)
	}
	ref, err := cfg.ReferenceSpectrum.Spectrum()
	if err != nil {
		return nil, fmt.Errorf("catalogue: reference spectrum: %w", err)
	}

	c := &Catalogue{
		cfg:    cfg,
		root:   cfg.Path,
		file:   cfg.CataloguePath(),
		ref:    ref,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.CacheSize > 0 {
		if c.cache, err = lru.New[string, *matfile.Record](cfg.CacheSize); err != nil {
			return nil, fmt.Errorf("catalogue: cache: %w", err)
		}
	}

	entries, err := load(c.file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Info("catalogue file not found, starting empty", "path", c.file)
	case err != nil:
		return nil, fmt.Errorf("catalogue: load %s: %w", c.file, err)
	}
	c.swap(entries, false)
	return c, nil
}

// Root returns the catalogue root directory.
func (c *Catalogue) Root() string { return c.root }

// File returns the path of the saved index.
func (c *Catalogue) File() string { return c.file }

// Reference returns the spectrum at which entries are evaluated.
func (c *Catalogue) Reference() *spectrum.Spectrum { return c.ref }

// swap installs entries, renumbering rows and rebuilding the alias index.
// With keep set, aliases of the current index carry over to entries with the
// same database and path; the merge runs under the same lock as the swap.
func (c *Catalogue) swap(entries []Entry, keep bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if keep {
		old := make(map[string]string, len(c.aliases))
		for alias, i := range c.aliases {
			old[c.entries[i].key()] = alias
		}
		for i := range entries {
			if alias, ok := old[entries[i].key()]; ok {
				entries[i].Alias = alias
			}
		}
	}

	aliases := make(map[string]int, len(entries))
	for i := range entries {
		entries[i].Row = i
		if a := entries[i].Alias; a != "" {
			aliases[a] = i
		}
	}
	c.entries = entries
	c.aliases = aliases
}

// Len returns the number of entries.
func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a copy of the index.
func (c *Catalogue) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

// Filter returns the entries for which keep reports true.
func (c *Catalogue) Filter(keep func(Entry) bool) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entry
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns the entry registered under alias.
func (c *Catalogue) Lookup(alias string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.aliases[alias]
	if !ok || alias == "" {
		return Entry{}, fmt.Errorf("catalogue: alias %q: %w", alias, core.ErrLookup)
	}
	return c.entries[i], nil
}

// RegisterAlias assigns alias to the entry at row, replacing any alias the
// row had. Aliases are unique across the catalogue.
func (c *Catalogue) RegisterAlias(row int, alias string) error {
	if alias == "" {
		return fmt.Errorf("catalogue: empty alias: %w", core.ErrValidation)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if row < 0 || row >= len(c.entries) {
		return fmt.Errorf("catalogue: row %d out of range [0,%d): %w", row, len(c.entries), core.ErrValidation)
	}
	if i, ok := c.aliases[alias]; ok {
		if i == row {
			return nil
		}
		return fmt.Errorf("catalogue: alias %q already used by row %d: %w", alias, i, core.ErrValidation)
	}
	if old := c.entries[row].Alias; old != "" {
		delete(c.aliases, old)
	}
	c.entries[row].Alias = alias
	c.aliases[alias] = row
	c.logger.Debug("alias registered", "alias", alias, "path", c.entries[row].Path, "database", c.entries[row].Database)
	return nil
}

// Path returns the absolute file path of e.
func (c *Catalogue) Path(e Entry) string {
	return filepath.Join(c.root, e.Database, filepath.FromSlash(e.Path))
}

// Material builds a fresh material for alias. The entry's spectrum type
// and unit are the defaults; opts may override them.
func (c *Catalogue) Material(alias string, opts ...material.Option) (*material.Material, error) {
	e, err := c.Lookup(alias)
	if err != nil {
		return nil, err
	}
	rec, err := c.record(c.Path(e))
	if err != nil {
		return nil, fmt.Errorf("catalogue: %s: %w", alias, err)
	}

	all := make([]material.Option, 0, len(opts)+1)
	if t, err := spectrum.ParseType(e.SpectrumType); err == nil && e.Unit != "" {
		all = append(all, material.WithSpectrum(t, e.Unit))
	}
	m, err := material.FromRecord(rec, append(all, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("catalogue: %s: %w", alias, err)
	}
	m.Meta.Alias = alias
	return m, nil
}

// record reads path through the record cache. Records are never mutated
// after parsing so they can be shared between materials.
func (c *Catalogue) record(path string) (*matfile.Record, error) {
	if c.cache != nil {
		if rec, ok := c.cache.Get(path); ok {
			return rec, nil
		}
	}
	rec, err := matfile.Read(path)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(path, rec)
	}
	return rec, nil
}

func (c *Catalogue) purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
