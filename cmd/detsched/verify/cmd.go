// Package verify implements "detsched verify": load a network and a
// previously solved offset schedule, absorb it, and check every
// invariant V1-V8 without running any decider.
package verify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tollan/detsched/cmd/detsched/cmdutil"
	"github.com/tollan/detsched/internal/model"
	"github.com/tollan/detsched/internal/report"
	"github.com/tollan/detsched/internal/verify"
)

// Cmd returns the "verify" command.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <network.json> <schedule.json>",
		Short: "Check a solved schedule against every scheduling invariant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}
	return cmd
}

func run(networkPath, schedulePath string) error {
	net, err := cmdutil.LoadNetwork(networkPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(schedulePath)
	if err != nil {
		return fmt.Errorf("read schedule file: %w", err)
	}
	var records []model.OffsetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse schedule file: %w", err)
	}

	for _, rec := range records {
		node, ok := net.PathByLink(rec.FrameID, rec.LinkID)
		if !ok {
			return fmt.Errorf("schedule file references frame %d link %d, absent from network model", rec.FrameID, rec.LinkID)
		}
		node.Grid.Set(rec.Instance, rec.Replica, rec.OffsetNs)
	}

	res := verify.Verify(net)
	fmt.Println(report.VerifyLine(res))
	if !res.OK {
		return fmt.Errorf("verification failed: %s", res.Detail)
	}
	return nil
}
