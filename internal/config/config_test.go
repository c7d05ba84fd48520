package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SOURCE_PATH", "EXAMPLE_FORMAT", "HTTP_TIMEOUT", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "SANDBOX_PORT", "DRY_RUN"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.SourcePath != "jsons.csv" {
		t.Errorf("SourcePath = %q, want %q", cfg.SourcePath, "jsons.csv")
	}
	if cfg.ExampleFormat != ExampleFormatIndexed {
		t.Errorf("ExampleFormat = %q, want %q", cfg.ExampleFormat, ExampleFormatIndexed)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, 30*time.Second)
	}
	if cfg.LogFile != "process_requests.log" {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, "process_requests.log")
	}
	if cfg.LogMaxSizeMB != 5 {
		t.Errorf("LogMaxSizeMB = %d, want %d", cfg.LogMaxSizeMB, 5)
	}
	if cfg.LogMaxBackups != 3 {
		t.Errorf("LogMaxBackups = %d, want %d", cfg.LogMaxBackups, 3)
	}
	if cfg.SandboxPort != "8089" {
		t.Errorf("SandboxPort = %q, want %q", cfg.SandboxPort, "8089")
	}
	if cfg.DryRun {
		t.Error("DryRun should default to false")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SOURCE_PATH", "templates.xlsx")
	t.Setenv("ENDPOINT_URL", "https://graph.example.com/v19.0/123/message_templates")
	t.Setenv("AUTH_TOKEN", "secret")
	t.Setenv("COOKIE", "ps_l=0; ps_n=0")
	t.Setenv("EXAMPLE_FORMAT", ExampleFormatBodyText)
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("LOG_MAX_BACKUPS", "7")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.SourcePath != "templates.xlsx" {
		t.Errorf("SourcePath = %q, want %q", cfg.SourcePath, "templates.xlsx")
	}
	if cfg.Cookie != "ps_l=0; ps_n=0" {
		t.Errorf("Cookie = %q, want %q", cfg.Cookie, "ps_l=0; ps_n=0")
	}
	if cfg.ExampleFormat != ExampleFormatBodyText {
		t.Errorf("ExampleFormat = %q, want %q", cfg.ExampleFormat, ExampleFormatBodyText)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, 5*time.Second)
	}
	if !cfg.DryRun {
		t.Error("DryRun = false, want true")
	}
	if cfg.LogMaxBackups != 7 {
		t.Errorf("LogMaxBackups = %d, want %d", cfg.LogMaxBackups, 7)
	}
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LOG_MAX_SIZE_MB", "lots")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogMaxSizeMB != 5 {
		t.Errorf("LogMaxSizeMB = %d, want %d", cfg.LogMaxSizeMB, 5)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, 30*time.Second)
	}
}

// TestLoadConfig_LogLimitsMustBePositive tests that zero limits, which the
// rotating file treats as unbounded, fall back to the defaults
func TestLoadConfig_LogLimitsMustBePositive(t *testing.T) {
	t.Setenv("LOG_MAX_SIZE_MB", "0")
	t.Setenv("LOG_MAX_BACKUPS", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogMaxSizeMB != 5 {
		t.Errorf("LogMaxSizeMB = %d, want %d", cfg.LogMaxSizeMB, 5)
	}
	if cfg.LogMaxBackups != 3 {
		t.Errorf("LogMaxBackups = %d, want %d", cfg.LogMaxBackups, 3)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SourcePath:    "jsons.csv",
			EndpointURL:   "https://graph.example.com/v19.0/123/message_templates",
			AuthToken:     "secret",
			ExampleFormat: ExampleFormatIndexed,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "complete", mutate: func(c *Config) {}},
		{name: "missing endpoint", mutate: func(c *Config) { c.EndpointURL = "" }, wantErr: true},
		{name: "endpoint not http", mutate: func(c *Config) { c.EndpointURL = "graph.example.com" }, wantErr: true},
		{name: "missing token", mutate: func(c *Config) { c.AuthToken = "" }, wantErr: true},
		{name: "unknown example format", mutate: func(c *Config) { c.ExampleFormat = "nested" }, wantErr: true},
		{name: "missing source", mutate: func(c *Config) { c.SourcePath = "" }, wantErr: true},
		{name: "dry run needs no endpoint", mutate: func(c *Config) {
			c.DryRun = true
			c.EndpointURL = ""
			c.AuthToken = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
