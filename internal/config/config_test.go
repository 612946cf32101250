package config

import (
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Logging: LoggingConfig{Level: "loud"},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestValidate_EmptyDatabaseIsAllowed(t *testing.T) {
	// No database means local-only search, which is a supported mode.
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if cfg.Content.Dir != "content" {
		t.Errorf("content.dir default = %q, want %q", cfg.Content.Dir, "content")
	}
	if len(cfg.Content.Includes) != 2 {
		t.Errorf("content.includes default = %v, want md+mdx globs", cfg.Content.Includes)
	}
	if cfg.Index.Name != "encyclopedia" {
		t.Errorf("index.name default = %q, want %q", cfg.Index.Name, "encyclopedia")
	}
	if cfg.Index.MaxResults != 50 {
		t.Errorf("index.max_results default = %d, want 50", cfg.Index.MaxResults)
	}
	if cfg.Snapshot.PreviewLength != 500 {
		t.Errorf("snapshot.preview_length default = %d, want 500", cfg.Snapshot.PreviewLength)
	}
	if cfg.Snapshot.Path != "public/articles.json" {
		t.Errorf("snapshot.path default = %q", cfg.Snapshot.Path)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ENCY_TEST_ADDR", "redis:6379")

	in := []byte("addrs: [\"${ENCY_TEST_ADDR}\"]\nname: ${ENCY_TEST_MISSING:-encyclopedia}\n")
	out := string(expandEnvVars(in))

	want := "addrs: [\"redis:6379\"]\nname: encyclopedia\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
