package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level, errors at
// warn. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnRefreshStart(_ context.Context, packages int) {
	h.logger.Debug("refresh started", "packages", packages)
}

func (h *LogHooks) OnRefreshComplete(_ context.Context, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("refresh failed", "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("refresh complete", "rows", rows, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnPackageCollected(_ context.Context, pkg string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("package skipped", "package", pkg, "err", err)
		return
	}
	h.logger.Debug("package collected", "package", pkg, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnQueryComplete(_ context.Context, repos int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("upstream query failed", "repos", repos, "err", err)
		return
	}
	h.logger.Debug("upstream query", "repos", repos, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ RefreshHooks = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
)
