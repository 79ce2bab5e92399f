package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

// File stores the session record as a JSON file.
//
// Commit writes to a temp file in the same directory and renames it into
// place, so a crash mid-write never leaves a torn record behind.
type File struct {
	path string
	ins  instrument.Instrumentation
}

// NewFile creates a file-backed store at path. The parent directory is
// created on the first Commit.
func NewFile(path string, ins instrument.Instrumentation) *File {
	return &File{path: path, ins: ins}
}

// DefaultPath returns the conventional location for the session file under
// the user's configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "farmgate", "session.json"), nil
}

func (f *File) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return f.ins.Tracer("authflow.outbound.session").Start(ctx, name)
}

// Commit atomically replaces the stored record.
func (f *File) Commit(ctx context.Context, rec entity.Session) error {
	_, span := f.startSpan(ctx, "Commit")
	defer span.End()

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

// Clear removes the stored record. A missing file is not an error.
func (f *File) Clear(ctx context.Context) error {
	_, span := f.startSpan(ctx, "Clear")
	defer span.End()

	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Current reads the stored record. A missing or unreadable file yields a
// zero record, the same as never having signed in.
func (f *File) Current(ctx context.Context) (entity.Session, error) {
	_, span := f.startSpan(ctx, "Current")
	defer span.End()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.Session{}, nil
	}
	if err != nil {
		return entity.Session{}, err
	}

	var rec entity.Session
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A corrupt file means the record is unusable; treat it as signed out
		// rather than wedging every launch.
		return entity.Session{}, nil
	}
	return rec, nil
}
