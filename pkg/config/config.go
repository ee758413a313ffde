// Package config loads the packages-status configuration.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults (the staker package set, the DAppNode gateway)
//  2. a TOML file, by default $XDG_CONFIG_HOME/packages-status/config.toml
//  3. environment variables, optionally read from a .env file
//
// A missing default config file is not an error; a missing explicit one is.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/integrations/github"
	"github.com/dappnode/packages-status/pkg/integrations/ipfs"
)

// AppName names the config and cache directories.
const AppName = "packages-status"

// Environment variables read by [Load].
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvLegacyToken = "PABLO_TOKEN"
	EnvRedisAddr   = "PACKAGES_STATUS_REDIS_ADDR"
	EnvIPFSGateway = "PACKAGES_STATUS_IPFS_GATEWAY"
	EnvRegistryURL = "PACKAGES_STATUS_REGISTRY_URL"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Packages []string       `toml:"packages"`
	GitHub   GitHubConfig   `toml:"github"`
	IPFS     IPFSConfig     `toml:"ipfs"`
	Registry RegistryConfig `toml:"registry"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Fetch    FetchConfig    `toml:"fetch"`
}

type GitHubConfig struct {
	Token    string `toml:"token"`
	Endpoint string `toml:"endpoint"`
}

type IPFSConfig struct {
	Gateway string `toml:"gateway"`
}

type RegistryConfig struct {
	URL string   `toml:"url"`
	TTL Duration `toml:"ttl"`
}

type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	MemoryEntries int    `toml:"memory_entries"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// ReportTTL is how long the API serves a report before refreshing.
	ReportTTL Duration `toml:"report_ttl"`
}

type FetchConfig struct {
	Concurrency int      `toml:"concurrency"`
	Timeout     Duration `toml:"timeout"`
}

// StakerPackages is the default package set: the Ethereum staking clients
// published by DAppNode.
var StakerPackages = []string{
	"geth.dnp.dappnode.eth",
	"nethermind.public.dappnode.eth",
	"erigon.dnp.dappnode.eth",
	"besu.public.dappnode.eth",
	"reth.dnp.dappnode.eth",
	"prysm.dnp.dappnode.eth",
	"lighthouse.dnp.dappnode.eth",
	"teku.dnp.dappnode.eth",
	"nimbus.dnp.dappnode.eth",
	"lodestar.dnp.dappnode.eth",
	"mev-boost.dnp.dappnode.eth",
	"web3signer.dnp.dappnode.eth",
	"gnosis-erigon.dnp.dappnode.eth",
	"nethermind-xdai.dnp.dappnode.eth",
	"lighthouse-gnosis.dnp.dappnode.eth",
	"teku-gnosis.dnp.dappnode.eth",
	"lodestar-gnosis.dnp.dappnode.eth",
	"nimbus-gnosis.dnp.dappnode.eth",
	"web3signer-gnosis.dnp.dappnode.eth",
	"holesky-geth.dnp.dappnode.eth",
	"holesky-nethermind.dnp.dappnode.eth",
	"lighthouse-holesky.dnp.dappnode.eth",
	"teku-holesky.dnp.dappnode.eth",
	"mev-boost-holesky.dnp.dappnode.eth",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Packages: append([]string(nil), StakerPackages...),
		GitHub:   GitHubConfig{Endpoint: github.DefaultEndpoint},
		IPFS:     IPFSConfig{Gateway: ipfs.DefaultGateway},
		Registry: RegistryConfig{TTL: Duration{5 * time.Minute}},
		Cache:    CacheConfig{Backend: CacheFile, MemoryEntries: 4096},
		Server:   ServerConfig{Addr: ":8080", ReportTTL: Duration{time.Minute}},
		Fetch:    FetchConfig{Concurrency: 8, Timeout: Duration{30 * time.Second}},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/packages-status/config.toml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load builds the configuration. An empty path reads the default location
// if it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		} else if explicit {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GitHub.Token = firstNonEmpty(os.Getenv(EnvGitHubToken), os.Getenv(EnvLegacyToken), c.GitHub.Token)
	c.IPFS.Gateway = firstNonEmpty(os.Getenv(EnvIPFSGateway), c.IPFS.Gateway)
	c.Registry.URL = firstNonEmpty(os.Getenv(EnvRegistryURL), c.Registry.URL)
	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		c.Cache.RedisAddr = addr
		c.Cache.Backend = CacheRedis
	}
}

// Validate checks the configuration for values no component can work with.
// A missing token or registry URL is not checked here since commands such
// as "cache path" need neither; see [Config.RequireRemote].
func (c *Config) Validate() error {
	for _, name := range c.Packages {
		if err := errors.ValidatePackageName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "packages")
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_addr or %s", EnvRedisAddr)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Fetch.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch concurrency must be at least 1")
	}
	if c.Fetch.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch timeout must be positive")
	}
	return nil
}

// RequireRemote checks the settings a refresh cycle needs.
func (c *Config) RequireRemote() error {
	if c.GitHub.Token == "" {
		return errors.New(errors.ErrCodeUnauthorized, "no GitHub token: set %s", EnvGitHubToken)
	}
	return c.RequireRegistry()
}

// RequireRegistry checks the settings collection needs. Building a query
// reads the registry but never calls GitHub.
func (c *Config) RequireRegistry() error {
	if c.Registry.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no registry url: set [registry] url or %s", EnvRegistryURL)
	}
	return nil
}

// String renders the configuration as TOML with the token masked.
func (c *Config) String() string {
	masked := *c
	if masked.GitHub.Token != "" {
		masked.GitHub.Token = "****"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
