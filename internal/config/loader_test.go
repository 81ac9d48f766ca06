package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadFromMergesEnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
app:
  name: writer
llm:
  default_provider: openai
  providers:
    openai:
      api_key: ${WRITER_TEST_KEY:fallback-key}
flows:
  speech:
    provider: openai
`)
	writeFile(t, dir, "config.staging.yaml", `
server:
  http:
    port: 9000
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("WRITER_TEST_KEY", "sk-test")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.App.Name != "writer" {
		t.Fatalf("app.name=%q", cfg.App.Name)
	}
	if cfg.Server.HTTP.Port != 9000 {
		t.Fatalf("env file not merged, port=%d", cfg.Server.HTTP.Port)
	}
	if got := cfg.LLM.Providers["openai"].APIKey; got != "sk-test" {
		t.Fatalf("api key not expanded: %q", got)
	}
	if cfg.Flows.Speech.Model != "gpt-3.5-turbo" || cfg.Flows.PressRelease.Model != "gpt-4o" {
		t.Fatalf("flow model defaults missing: %+v", cfg.Flows)
	}
	if cfg.Flows.Speech.Filename != "연설문.txt" || cfg.Flows.PressRelease.Filename != "보도자료.txt" {
		t.Fatalf("filename defaults missing: %+v", cfg.Flows)
	}
	if cfg.Features.SubmissionGuard.TTL != 5*time.Minute {
		t.Fatalf("guard ttl=%s", cfg.Features.SubmissionGuard.TTL)
	}
}

func TestLoadFromRequiresBaseFile(t *testing.T) {
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing config.yaml")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("WRITER_SET", "x")

	cases := map[string]string{
		"${WRITER_SET}":        "x",
		"${WRITER_UNSET:dflt}": "dflt",
		"${WRITER_UNSET:}":     "",
		"${WRITER_UNSET}":      "${WRITER_UNSET}",
		"a-${WRITER_SET}-b":    "a-x-b",
	}
	for in, want := range cases {
		if got := expandEnv(in); got != want {
			t.Fatalf("expandEnv(%q)=%q want %q", in, got, want)
		}
	}
}
