package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dappnode/packages-status/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvGitHubToken, EnvLegacyToken, EnvRedisAddr, EnvIPFSGateway, EnvRegistryURL} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(StakerPackages, cfg.Packages); diff != "" {
		t.Errorf("Packages mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Fetch.Timeout.Duration != 30*time.Second {
		t.Errorf("Fetch.Timeout = %v", cfg.Fetch.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
packages = ["geth.dnp.dappnode.eth", "besu.public.dappnode.eth"]

[github]
token = "from-file"

[registry]
url = "https://registry.example.com/api"
ttl = "2m"

[cache]
backend = "memory"
memory_entries = 128

[server]
addr = ":9090"
report_ttl = "30s"

[fetch]
concurrency = 4
timeout = "10s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff([]string{"geth.dnp.dappnode.eth", "besu.public.dappnode.eth"}, cfg.Packages); diff != "" {
		t.Errorf("Packages mismatch (-want +got):\n%s", diff)
	}
	checks := []struct {
		name      string
		got, want any
	}{
		{"token", cfg.GitHub.Token, "from-file"},
		{"registry url", cfg.Registry.URL, "https://registry.example.com/api"},
		{"registry ttl", cfg.Registry.TTL.Duration, 2 * time.Minute},
		{"cache backend", cfg.Cache.Backend, CacheMemory},
		{"memory entries", cfg.Cache.MemoryEntries, 128},
		{"addr", cfg.Server.Addr, ":9090"},
		{"report ttl", cfg.Server.ReportTTL.Duration, 30 * time.Second},
		{"concurrency", cfg.Fetch.Concurrency, 4},
		{"timeout", cfg.Fetch.Timeout.Duration, 10 * time.Second},
		{"gateway default kept", cfg.IPFS.Gateway, Default().IPFS.Gateway},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadDefaultPath(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir := filepath.Join(xdg, AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`packages = ["teku.dnp.dappnode.eth"]`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Packages) != 1 || cfg.Packages[0] != "teku.dnp.dappnode.eth" {
		t.Errorf("Packages = %v", cfg.Packages)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[github]\ntoken = \"from-file\"\n")
	t.Setenv(EnvLegacyToken, "legacy")
	t.Setenv(EnvRedisAddr, "localhost:6379")
	t.Setenv(EnvIPFSGateway, "http://localhost:8080")
	t.Setenv(EnvRegistryURL, "http://localhost:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GitHub.Token != "legacy" {
		t.Errorf("token = %q, want legacy token to beat the file", cfg.GitHub.Token)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.IPFS.Gateway != "http://localhost:8080" || cfg.Registry.URL != "http://localhost:9000" {
		t.Errorf("gateway=%q registry=%q", cfg.IPFS.Gateway, cfg.Registry.URL)
	}

	t.Setenv(EnvGitHubToken, "primary")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GitHub.Token != "primary" {
		t.Errorf("token = %q, want %s to win", cfg.GitHub.Token, EnvGitHubToken)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "packages = ["},
		{"bad duration", "[fetch]\ntimeout = \"soon\""},
		{"bad package", `packages = ["no registry"]`},
		{"bad backend", "[cache]\nbackend = \"s3\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"zero concurrency", "[fetch]\nconcurrency = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("missing explicit config should fail")
		}
	})
}

func TestRequireRemote(t *testing.T) {
	cfg := Default()
	if !errors.Is(cfg.RequireRemote(), errors.ErrCodeUnauthorized) {
		t.Error("missing token should be reported")
	}
	cfg.GitHub.Token = "t"
	if !errors.Is(cfg.RequireRemote(), errors.ErrCodeInvalidConfig) {
		t.Error("missing registry url should be reported")
	}
	cfg.Registry.URL = "http://localhost"
	if err := cfg.RequireRemote(); err != nil {
		t.Errorf("RequireRemote() = %v", err)
	}
}

func TestRequireRegistry(t *testing.T) {
	cfg := Default()
	if !errors.Is(cfg.RequireRegistry(), errors.ErrCodeInvalidConfig) {
		t.Error("missing registry url should be reported")
	}
	cfg.Registry.URL = "http://localhost"
	if err := cfg.RequireRegistry(); err != nil {
		t.Errorf("RequireRegistry() without token = %v", err)
	}
}

func TestStringMasksToken(t *testing.T) {
	cfg := Default()
	cfg.GitHub.Token = "ghp_secret"
	s := cfg.String()
	if strings.Contains(s, "ghp_secret") {
		t.Errorf("token leaked:\n%s", s)
	}
	if !strings.Contains(s, `timeout = "30s"`) {
		t.Errorf("durations should render as strings:\n%s", s)
	}
	if cfg.GitHub.Token != "ghp_secret" {
		t.Error("String() must not modify the config")
	}
}
