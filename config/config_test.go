package config

import "testing"

func defaults() *Config {
	return &Config{
		Port:         8080,
		IDLength:     10,
		Backend:      BackendMemory,
		DataDir:      "./data",
		MongoDB:      "pastebin",
		DynamoRegion: "us-east-1",
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PASTE_PORT", "9090")
	t.Setenv("PASTE_URL", "https://paste.example.com")
	t.Setenv("PASTE_ID_LENGTH", "12")
	t.Setenv("PASTE_BACKEND", "redis")
	t.Setenv("PASTE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PASTE_TEST_MODE", "1")

	cfg := defaults()
	ApplyEnv(cfg)

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.URL != "https://paste.example.com" {
		t.Errorf("unexpected URL: %q", cfg.URL)
	}
	if cfg.IDLength != 12 {
		t.Errorf("expected id length 12, got %d", cfg.IDLength)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("expected redis backend, got %q", cfg.Backend)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis url: %q", cfg.RedisURL)
	}
	if !cfg.TestMode {
		t.Errorf("expected test mode to be enabled")
	}
}

func TestApplyEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PASTE_PORT", "not-a-port")
	t.Setenv("PASTE_ID_LENGTH", "ten")

	cfg := defaults()
	ApplyEnv(cfg)

	if cfg.Port != 8080 {
		t.Errorf("expected default port to survive bad env, got %d", cfg.Port)
	}
	if cfg.IDLength != 10 {
		t.Errorf("expected default id length to survive bad env, got %d", cfg.IDLength)
	}
}

func TestApplyEnvLeavesDefaultsAlone(t *testing.T) {
	cfg := defaults()
	ApplyEnv(cfg)

	if cfg.Backend != BackendMemory {
		t.Errorf("expected memory backend by default, got %q", cfg.Backend)
	}
	if cfg.TestMode {
		t.Errorf("expected test mode off by default")
	}
}
