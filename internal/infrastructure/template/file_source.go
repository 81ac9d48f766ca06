// Package template reads prompt templates from the file system.
package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("template")

// FileSource loads templates from a directory. Files are read in full on
// every call so edits take effect without a restart.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Load(ctx context.Context, name string) (string, error) {
	_, span := tracer.Start(ctx, "template.Load")
	span.SetAttributes(attribute.String("template.name", name))
	defer span.End()

	path, err := s.resolve(name)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	span.SetAttributes(attribute.Int("template.bytes", len(b)))
	return string(b), nil
}

// HealthCheck reports whether the named template is readable.
func (s *FileSource) HealthCheck(ctx context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *FileSource) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || filepath.IsAbs(name) || !filepath.IsLocal(name) {
		return "", fmt.Errorf("invalid template name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
