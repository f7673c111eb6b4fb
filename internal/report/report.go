// Package report renders a finished scheduling run as a terminal summary
// (C13), in the teacher's cmd/ployz/ui panel style: lipgloss for the
// accent/success/error palette, dustin/go-humanize for magnitudes a reader
// shouldn't have to do arithmetic on.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tollan/detsched/internal/model"
	"github.com/tollan/detsched/internal/strategy"
	"github.com/tollan/detsched/internal/verify"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")

	AccentStyle  = lipgloss.NewStyle().Foreground(purple)
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	WarnStyle    = lipgloss.NewStyle().Foreground(yellow)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

func SuccessMsg(format string, a ...any) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func WarnMsg(format string, a ...any) string {
	return WarnStyle.Render("!") + " " + fmt.Sprintf(format, a...)
}

func ErrorMsg(format string, a ...any) string {
	return ErrorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

// Run holds everything a rendered report needs about one schedule
// invocation: the network it ran against, the strategy outcome, and how
// long wall-clock-wise the run took.
type Run struct {
	Net     *model.Network
	Outcome strategy.Outcome
	Mode    strategy.Kind
	Elapsed time.Duration
}

// Summary renders Run as a multi-line terminal report. On Scheduled it
// leads with utilization and frame/round magnitudes; on Infeasible or
// Error it leads with the reason, still reporting whatever rounds ran.
func Summary(r Run) string {
	var sb strings.Builder

	switch r.Outcome.Kind {
	case strategy.Scheduled:
		sb.WriteString(SuccessMsg("synthesized %s frames in %.1fs\n",
			humanize.Comma(int64(r.Net.FrameCount())), r.Elapsed.Seconds()))
		sb.WriteString(fmt.Sprintf("  %s link utilization\n", utilizationString(r.Net.Utilization())))
		sb.WriteString(fmt.Sprintf("  %s decider round(s)\n", humanize.Comma(int64(r.Outcome.Rounds))))
	case strategy.Infeasible:
		sb.WriteString(WarnMsg("infeasible after %s decider round(s): %s\n",
			humanize.Comma(int64(r.Outcome.Rounds)), r.Outcome.Reason))
	default:
		sb.WriteString(ErrorMsg("%s after %s decider round(s): %s\n",
			r.Outcome.Detail, humanize.Comma(int64(r.Outcome.Rounds)), r.Outcome.Reason))
	}

	sb.WriteString(MutedStyle.Render(fmt.Sprintf("  mode: %s, hyperperiod: %s ns",
		r.Mode, humanize.Comma(r.Net.HyperPeriod()))))
	sb.WriteString("\n")

	return sb.String()
}

// VerifyLine renders a single-line verdict for a verify.Result, matching
// the same ✓/✗ vocabulary as Summary so schedule and verify output read
// as one family.
func VerifyLine(res verify.Result) string {
	if res.OK {
		return SuccessMsg("all invariants hold")
	}
	w := res.Witness
	return ErrorMsg("%s violated at frame %d link %d instance %d replica %d: %s",
		res.Invariant, w.Frame, w.Link, w.Instance, w.Replica, res.Detail)
}

func utilizationString(u float64) string {
	return BoldStyle.Render(fmt.Sprintf("%.1f%%", u*100))
}
