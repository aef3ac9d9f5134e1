package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mind-engage/qbank/internal/db"
)

// Registry resolves bank names to stores. Every caller names the bank it
// works on; there is no "current" bank.
type Registry struct {
	mu     sync.Mutex
	locs   map[string]db.Location
	open   map[string]*sql.DB
	opener func(context.Context, db.Location) (*sql.DB, error)
}

func NewRegistry(locs map[string]db.Location) *Registry {
	r := &Registry{
		locs:   map[string]db.Location{},
		open:   map[string]*sql.DB{},
		opener: db.Open,
	}
	for name, loc := range locs {
		r.locs[name] = loc
	}
	return r
}

// ScanDir registers every *.db file in dir as a sqlite bank named after the
// file. Names already present are left alone.
func (r *Registry) ScanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".db" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".db")
		if _, ok := r.locs[name]; ok {
			continue
		}
		r.locs[name] = db.Location{Driver: db.DriverSQLite, DSN: filepath.Join(dir, e.Name())}
	}
	return nil
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.locs))
	for n := range r.locs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Location(name string) (db.Location, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locs[name]
	return loc, ok
}

// Store returns the repository of the named bank, opening it (and ensuring
// its schema) on first use.
func (r *Registry) Store(ctx context.Context, name string) (*SQLStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.open[name]; ok {
		return NewSQLStore(h), nil
	}
	loc, ok := r.locs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, name)
	}
	h, err := r.opener(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("bank %s: %w", name, err)
	}
	r.open[name] = h
	log.Printf("bank %s opened (%s)", name, loc.Driver)
	return NewSQLStore(h), nil
}

// Add registers a bank and opens it right away so a bad location is
// reported to the caller instead of on first use.
func (r *Registry) Add(ctx context.Context, name string, loc db.Location) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Fields: []FieldError{{Field: "name", Message: "is required"}}}
	}
	h, err := r.opener(ctx, loc)
	if err != nil {
		return fmt.Errorf("bank %s: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.open[name]; ok {
		_ = old.Close()
	}
	r.locs[name] = loc
	r.open[name] = h
	return nil
}

// Remove forgets a bank and closes its handle. The underlying file or
// database is not touched.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBank, name)
	}
	delete(r.locs, name)
	if h, ok := r.open[name]; ok {
		delete(r.open, name)
		return h.Close()
	}
	return nil
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for name, h := range r.open {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("bank %s: %w", name, err))
		}
		delete(r.open, name)
	}
	return errors.Join(errs...)
}
