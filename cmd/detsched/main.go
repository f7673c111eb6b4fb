package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tollan/detsched/cmd/detsched/schedule"
	"github.com/tollan/detsched/cmd/detsched/verify"
	"github.com/tollan/detsched/internal/logging"
	"github.com/tollan/detsched/internal/telemetry"
)

func main() {
	processor := telemetry.NewLineSpanProcessor(func(line string) {
		fmt.Fprintln(os.Stderr, line)
	})
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(processor))
	otel.SetTracerProvider(tp)
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()
	tracer := tp.Tracer("detsched")

	var debug bool
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "detsched",
		Short:         "Offline transmission-schedule synthesis kernel",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(schedule.Cmd(tracer))
	root.AddCommand(verify.Cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
