// Package cmdutil holds the small pieces of plumbing every detsched
// subcommand shares: loading an input network from disk, building the
// decider chain out of the run configuration, and writing the solved
// offset grid back out. Modeled on the teacher's cmd/ployz/cmdutil
// package, which plays the same role for its own subcommands.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tollan/detsched/config"
	"github.com/tollan/detsched/internal/audit"
	"github.com/tollan/detsched/internal/decider"
	"github.com/tollan/detsched/internal/model"
	"github.com/tollan/detsched/internal/telemetry"
)

// LoadNetwork reads and normalizes an InputNetwork JSON document.
func LoadNetwork(path string) (*model.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network file: %w", err)
	}

	var in model.InputNetwork
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse network file: %w", err)
	}

	net, err := model.Build(in)
	if err != nil {
		return nil, fmt.Errorf("build network model: %w", err)
	}
	return net, nil
}

// DeciderChain bundles the assembled Decider along with the audit store
// it may be recording into, so the caller can close the store once the
// run ends.
type DeciderChain struct {
	Decider decider.Decider
	store   *audit.Store
}

// Close releases the audit store, if one was opened.
func (c *DeciderChain) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// BuildDeciderChain assembles the real Gateway, wrapping it with a
// caching layer (C11), the audit recorder (C10) if Audit.Path is
// configured, the tracing layer that turns every Decide call into a
// child span of op (C9), and a second caching layer outermost. Order
// matters: the outer cache answers a repeated formula before it reaches
// the audit log or a span, since it performed no real decider round.
func BuildDeciderChain(cfg *config.Config, op *telemetry.Operation, runID, mode string) (*DeciderChain, error) {
	var timeout time.Duration
	if cfg.Decider.TimeoutMs > 0 {
		timeout = time.Duration(cfg.Decider.TimeoutMs) * time.Millisecond
	}
	gw := decider.NewGateway(cfg.Decider.Binary, "", timeout)

	var d decider.Decider = gw
	if cfg.Decider.CacheSize > 0 {
		cached, err := decider.NewCachingDecider(gw, cfg.Decider.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("build decider cache: %w", err)
		}
		d = cached
	}

	chain := &DeciderChain{Decider: d}
	if cfg.Audit.Path != "" {
		store, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		chain.store = store
		d = audit.NewRecordingDecider(d, store, runID, mode)
	}

	d = telemetry.NewTracingDecider(d, op, mode+"-round")

	if cfg.Decider.CacheSize > 0 {
		cached, err := decider.NewCachingDecider(d, cfg.Decider.CacheSize)
		if err != nil {
			_ = chain.Close()
			return nil, fmt.Errorf("build decider cache: %w", err)
		}
		d = cached
	}
	chain.Decider = d
	return chain, nil
}

// WriteSchedule serializes the solved offset grids of net to path as
// indented JSON.
func WriteSchedule(path string, net *model.Network) error {
	out := model.DumpSchedule(net)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schedule file: %w", err)
	}
	return nil
}
