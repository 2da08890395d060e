// Package seed serves the static reference data used to populate empty
// collections: orders, products, employees, the production item catalog and the
// production orders planning file.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/errors"

	"github.com/elpiaio/elpiaio-ERP-prototype/config"
)

// Reference resources
const (
	ResourceOrders           = "orders.json"
	ResourceProducts         = "products.json"
	ResourceEmployees        = "employees.json"
	ResourceProduction       = "production.json"
	ResourceProductionOrders = "productionsOrders.json"
)

// ErrFetchFailed is matched by every seed fetch failure
var ErrFetchFailed = errors.New("seed fetch failed")

//go:embed data/*.json
var bundled embed.FS

// Source fetches a reference resource and decodes it into v
type Source interface {
	Fetch(ctx context.Context, resource string, v any) error
}

// FetchError describes a failed resource fetch
type FetchError struct {
	Resource string
	Status   int
	Body     string
	Err      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s failed", e.Resource)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(" - %s", e.Body)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrFetchFailed
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// FSSource reads resources from a file system
type FSSource struct {
	fsys fs.FS
}

// NewEmbeddedSource serves the reference data bundled into the binary
func NewEmbeddedSource() *FSSource {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(err)
	}
	return &FSSource{fsys: sub}
}

// NewDirSource serves reference data from a directory
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir)}
}

// NewFSSource serves reference data from fsys
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch decodes resource into v
func (s *FSSource) Fetch(ctx context.Context, resource string, v any) error {
	if err := ctx.Err(); err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	data, err := fs.ReadFile(s.fsys, resource)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &FetchError{Resource: resource, Err: errors.Wrap(err, "invalid JSON")}
	}
	return nil
}

// New builds the source selected by seed.mode
func New(cfg config.SeedConfig) (Source, error) {
	switch cfg.Mode {
	case config.SeedEmbedded, "":
		return NewEmbeddedSource(), nil
	case config.SeedDir:
		return NewDirSource(cfg.Dir), nil
	case config.SeedHTTP:
		return NewHTTPSource(cfg.BaseURL, cfg.Timeout), nil
	}
	return nil, errors.Errorf("unknown seed mode %q", cfg.Mode)
}
