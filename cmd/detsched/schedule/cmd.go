// Package schedule implements the "detsched schedule" command group: one
// subcommand per strategy (spec.md §4.5), each wiring the loaded network
// through a decider chain and a scheduling strategy, then reporting and
// persisting the result.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/tollan/detsched/cmd/detsched/cmdutil"
	"github.com/tollan/detsched/config"
	"github.com/tollan/detsched/internal/report"
	"github.com/tollan/detsched/internal/strategy"
	"github.com/tollan/detsched/internal/telemetry"
	"github.com/tollan/detsched/internal/verify"
)

// Cmd returns the "schedule" command group.
func Cmd(tracer trace.Tracer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Synthesize a transmission schedule",
	}
	cmd.AddCommand(oneShotCmd(tracer))
	cmd.AddCommand(incrementalCmd(tracer))
	cmd.AddCommand(segmentedCmd(tracer))
	return cmd
}

type commonFlags struct {
	out       string
	cacheSize int
	auditPath string
	noVerify  bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.out, "out", "schedule.json", "Path to write the solved offset schedule")
	cmd.Flags().IntVar(&f.cacheSize, "cache-size", 0, "Decider response cache size (0 uses config default)")
	cmd.Flags().StringVar(&f.auditPath, "audit-db", "", "Path to a sqlite file recording every decider round (empty uses config default)")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "Skip invariant verification after scheduling")
}

func oneShotCmd(tracer trace.Tracer) *cobra.Command {
	var cf commonFlags
	cmd := &cobra.Command{
		Use:   "one-shot <network.json>",
		Short: "Schedule every frame in a single batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), tracer, strategy.OneShot, args[0], &cf, 0, 0)
		},
	}
	cf.register(cmd)
	return cmd
}

func incrementalCmd(tracer trace.Tracer) *cobra.Command {
	var cf commonFlags
	var step int
	cmd := &cobra.Command{
		Use:   "incremental <network.json>",
		Short: "Schedule frames in fixed-size successive batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), tracer, strategy.Incremental, args[0], &cf, step, 0)
		},
	}
	cf.register(cmd)
	cmd.Flags().IntVar(&step, "step", 0, "Frames per batch (0 uses config default)")
	return cmd
}

func segmentedCmd(tracer trace.Tracer) *cobra.Command {
	var cf commonFlags
	var step int
	var windowNs int64
	cmd := &cobra.Command{
		Use:   "segmented <network.json>",
		Short: "Schedule frames window-by-window, ordered by effective deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), tracer, strategy.Segmented, args[0], &cf, step, windowNs)
		},
	}
	cf.register(cmd)
	cmd.Flags().IntVar(&step, "step", 0, "Frames per window-slice (0 uses config default)")
	cmd.Flags().Int64Var(&windowNs, "window-ns", 0, "Window width in nanoseconds (0 uses config default)")
	return cmd
}

func run(ctx context.Context, tracer trace.Tracer, kind strategy.Kind, networkPath string, cf *commonFlags, step int, windowNs int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cf.cacheSize > 0 {
		cfg.Decider.CacheSize = cf.cacheSize
	}
	if cf.auditPath != "" {
		cfg.Audit.Path = cf.auditPath
	}
	if step <= 0 {
		step = cfg.Strategy.IncrementalStep
	}
	if windowNs <= 0 {
		windowNs = cfg.Strategy.SegmentedWindowNs
	}

	net, err := cmdutil.LoadNetwork(networkPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	op, err := telemetry.EmitPlan(ctx, tracer, "schedule."+kind.String(), telemetry.Plan{
		Steps: []telemetry.PlannedStep{{ID: kind.String() + "-round-1", Title: "first decider round"}},
	})
	if err != nil {
		return err
	}

	chain, err := cmdutil.BuildDeciderChain(cfg, op, runID, kind.String())
	if err != nil {
		op.End(err)
		return err
	}
	defer func() {
		_ = chain.Close()
	}()

	started := time.Now()
	var outcome strategy.Outcome
	switch kind {
	case strategy.OneShot:
		outcome = strategy.RunOneShot(op.Context(), net, chain.Decider)
	case strategy.Incremental:
		outcome = strategy.RunIncremental(op.Context(), net, chain.Decider, step)
	case strategy.Segmented:
		outcome = strategy.RunSegmented(op.Context(), net, chain.Decider, step, windowNs)
	default:
		return fmt.Errorf("schedule: unknown strategy kind %v", kind)
	}
	elapsed := time.Since(started)

	var runErr error
	switch outcome.Kind {
	case strategy.Error:
		runErr = fmt.Errorf("%s: %s", outcome.Detail, outcome.Reason)
	case strategy.Infeasible:
		runErr = fmt.Errorf("infeasible: %s", outcome.Reason)
	}
	op.End(runErr)

	fmt.Print(report.Summary(report.Run{Net: net, Outcome: outcome, Mode: kind, Elapsed: elapsed}))

	if outcome.Kind != strategy.Scheduled {
		return runErr
	}

	if !cf.noVerify {
		res := verify.Verify(net)
		fmt.Println(report.VerifyLine(res))
		if !res.OK {
			return fmt.Errorf("schedule violates %s: %s", res.Invariant, res.Detail)
		}
	}

	if err := cmdutil.WriteSchedule(cf.out, net); err != nil {
		return err
	}
	fmt.Printf("  wrote %s\n", cf.out)
	return nil
}
