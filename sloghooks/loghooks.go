package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/regioncache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
}

var _ regioncache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("regioncache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) RegionCleared(region string, removed, skipped int) {
	if h.l == nil {
		return
	}
	h.l.Info("regioncache.region_cleared",
		"region", region,
		"removed", removed,
		"skipped", skipped)
}

func (h *Hooks) StoreFlushed(region string) {
	if h.l == nil {
		return
	}
	h.l.Warn("regioncache.store_flushed",
		"region", region,
		"msg", "clear flushed the whole store; foreign data is gone too")
}

func (h *Hooks) LoadFailed(region, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("regioncache.load_failed",
		"region", region,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) IndexProvisioned(region string) {
	if h.l == nil {
		return
	}
	h.l.Debug("regioncache.index_provisioned",
		"region", region)
}
