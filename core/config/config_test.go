package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %s", cfg.Telegram.RunMode)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Fatalf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.Storage.File == "" {
		t.Fatal("expected default storage file")
	}
	if cfg.Photos.Dir != "photos" {
		t.Fatalf("photos dir = %s", cfg.Photos.Dir)
	}
}

func TestNormalizeMissingToken(t *testing.T) {
	cfg := &Config{}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %s", cfg.Telegram.RunMode)
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing webhook url")
	}
}

func TestNormalizePostgresRequiresHost(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = BackendPostgres
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing database host")
	}
	cfg.Storage.Database.Host = "localhost"
	cfg.Storage.Database.Name = "clinic"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Storage.Database.MaxConnections != 4 {
		t.Fatalf("max connections = %d", cfg.Storage.Database.MaxConnections)
	}
}

func TestNormalizeRejectsUnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = "dynamo"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" {
		t.Fatalf("exclude[0] = %s", cfg.RateLimit.ExcludeUpdates[0])
	}
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported exclusion")
	}
}
