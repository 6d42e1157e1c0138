package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Synth.Backend != "keyword" {
		t.Errorf("Synth.Backend = %q, want offline default", cfg.Synth.Backend)
	}
	if cfg.Layout.Direction != "horizontal" {
		t.Errorf("Layout.Direction = %q", cfg.Layout.Direction)
	}
	if cfg.Designs.Backend != "memory" {
		t.Errorf("Designs.Backend = %q", cfg.Designs.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshdesign.toml")
	content := `
[server]
addr = ":9090"

[synth]
backend = "http"
service_url = "http://design.internal/generate"
timeout_seconds = 10
cache_dir = "/tmp/synthcache"

[layout]
direction = "vertical"
node_width = 200.0

[designs]
backend = "file"
dir = "/tmp/designs"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Synth.Backend != "http" || cfg.Synth.TimeoutSeconds != 10 {
		t.Errorf("Synth = %+v", cfg.Synth)
	}
	if cfg.Synth.CacheDir != "/tmp/synthcache" {
		t.Errorf("CacheDir = %q", cfg.Synth.CacheDir)
	}
	if cfg.Layout.Direction != "vertical" || cfg.Layout.NodeWidth != 200 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Designs.Backend != "file" || cfg.Designs.Dir != "/tmp/designs" {
		t.Errorf("Designs = %+v", cfg.Designs)
	}

	// Values the file omits keep their defaults.
	if cfg.Designs.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want default", cfg.Designs.RedisAddr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load of a missing explicit path should fail")
	}
}

func TestLoadNoPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Addr == "" {
		t.Error("empty path should yield defaults")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MESHDESIGN_ADDR", ":7070")
	t.Setenv("MESHDESIGN_SYNTH_BACKEND", "http")
	t.Setenv("MESHDESIGN_SYNTH_TIMEOUT", "5")
	t.Setenv("MESHDESIGN_DESIGNS_BACKEND", "redis")
	t.Setenv("MESHDESIGN_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Synth.Backend != "http" || cfg.Synth.TimeoutSeconds != 5 {
		t.Errorf("Synth = %+v", cfg.Synth)
	}
	if cfg.Designs.Backend != "redis" || cfg.Designs.RedisAddr != "redis.internal:6379" {
		t.Errorf("Designs = %+v", cfg.Designs)
	}
}

func TestEnvIgnoresMalformedInt(t *testing.T) {
	t.Setenv("MESHDESIGN_SYNTH_TIMEOUT", "soon")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Synth.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want default 30", cfg.Synth.TimeoutSeconds)
	}
}
