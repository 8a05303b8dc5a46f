package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/perftrack")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %s", cfg.Addr)
	}
	if cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("expected default body limit, got %d", cfg.MaxBodyBytes)
	}
	if !cfg.RunMigrations || !cfg.RunSeed {
		t.Fatal("expected migrations and seed enabled by default")
	}
	if cfg.MetricsEnabled != true {
		t.Fatal("expected metrics enabled by default")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DatabaseURL:        "postgres://localhost/perftrack",
			Environment:        "development",
			MaxBodyBytes:       1048576,
			RateLimitPerMinute: 120,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing database url", func(c *Config) { c.DatabaseURL = " " }, true},
		{"production without jwt secret", func(c *Config) { c.Environment = "production" }, true},
		{"production seed with empty password", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "long-random-value"
			c.RunSeed = true
		}, true},
		{"tiny body limit", func(c *Config) { c.MaxBodyBytes = 512 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
