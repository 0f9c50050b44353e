// pkg/marker/marker.go
//
// On-disk evidence that a one-time privileged operation completed.

package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_io"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Record is the YAML body of a marker file.
type Record struct {
	Name        string    `yaml:"name"`
	CompletedAt time.Time `yaml:"completed_at"`
	RunID       string    `yaml:"run_id,omitempty"`
	Host        string    `yaml:"host,omitempty"`
}

// Store keeps markers as <dir>/<name>.yaml.
type Store struct {
	Dir string
}

// New returns a store rooted at <stateDir>/markers.
func New(stateDir string) *Store {
	return &Store{Dir: filepath.Join(stateDir, shared.MarkersSubdir)}
}

// Path returns the file backing a marker.
func (s *Store) Path(name string) (string, error) {
	if !nameRe.MatchString(name) {
		return "", fmt.Errorf("invalid marker name %q", name)
	}
	return filepath.Join(s.Dir, name+".yaml"), nil
}

// Exists reports whether the marker has been written.
func (s *Store) Exists(name string) (bool, error) {
	p, err := s.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("checking marker %s: %w", name, err)
	}
}

// Write records completion. Call it only after the operation succeeded.
func (s *Store) Write(ctx context.Context, rec Record) error {
	p, err := s.Path(rec.Name)
	if err != nil {
		return err
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now().UTC()
	}
	if err := hestia_io.WriteYAML(ctx, p, rec, shared.FilePermOwnerReadWrite); err != nil {
		return fmt.Errorf("writing marker %s: %w", rec.Name, err)
	}
	otelzap.Ctx(ctx).Info("Completion marker written", zap.String("marker", rec.Name), zap.String("path", p))
	return nil
}

// Read loads a marker written earlier.
func (s *Store) Read(ctx context.Context, name string) (*Record, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := hestia_io.ReadYAML(ctx, p, &rec); err != nil {
		return nil, fmt.Errorf("reading marker %s: %w", name, err)
	}
	return &rec, nil
}

// CheckWritable fails when markers could not be written, so callers can
// refuse to start an operation whose completion would go unrecorded.
func (s *Store) CheckWritable() error {
	if err := hestia_io.EnsureWritableDir(s.Dir); err != nil {
		return fmt.Errorf("marker directory: %w", err)
	}
	return nil
}
