package template

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceReadsOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template_보도.txt")
	if err := os.WriteFile(path, []byte("v1 {title}"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := NewFileSource(dir)

	got, err := src.Load(context.Background(), "template_보도.txt")
	if err != nil || got != "v1 {title}" {
		t.Fatalf("Load = %q, %v", got, err)
	}

	if err := os.WriteFile(path, []byte("v2 {title}"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = src.Load(context.Background(), "template_보도.txt")
	if err != nil || got != "v2 {title}" {
		t.Fatalf("Load after edit = %q, %v", got, err)
	}
	if err := src.HealthCheck(context.Background(), "template_보도.txt"); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestFileSourceErrors(t *testing.T) {
	src := NewFileSource(t.TempDir())

	if _, err := src.Load(context.Background(), "missing.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	for _, name := range []string{"", "../secret.txt", "/etc/passwd"} {
		if _, err := src.Load(context.Background(), name); err == nil {
			t.Fatalf("Load(%q) succeeded", name)
		}
	}
}
