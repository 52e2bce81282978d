package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/circuitgrid/internal/circuitfile"
	"github.com/vk/circuitgrid/internal/cli"
	"github.com/vk/circuitgrid/internal/ctxlog"
	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/snapstore"
)

// main is the entrypoint for the circuitgrid CLI.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := ctxlog.New(config.LogLevel, config.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	circuits, err := circuitfile.Load(ctx, config.CircuitPath)
	if err != nil {
		return err
	}
	if len(circuits) == 0 {
		return fmt.Errorf("no circuits found in %s", config.CircuitPath)
	}

	for _, c := range circuits {
		if err := printProgram(outW, c); err != nil {
			return err
		}
	}

	if config.SnapshotOut != "" {
		return writeSnapshots(ctx, config.SnapshotOut, circuits)
	}
	return nil
}

// printProgram writes the circuit's operations in topological order.
func printProgram(outW io.Writer, c *circuitfile.Circuit) error {
	ops, err := c.DAG.TopologicalOpOrder()
	if err != nil {
		return fmt.Errorf("circuit %q: %w", c.Name, err)
	}

	fmt.Fprintf(outW, "circuit %q: %d wires, %d operations\n",
		c.Name, len(c.DAG.Wires()), len(ops))
	for _, op := range ops {
		fmt.Fprintf(outW, "  %s\n", formatOp(op))
	}
	return nil
}

func formatOp(op *dagnode.OpNode) string {
	var b strings.Builder
	b.WriteString(op.Name())
	for i, w := range op.Qargs() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" " + w.String())
	}
	if cargs := op.Cargs(); len(cargs) > 0 {
		b.WriteString(" ->")
		for i, w := range cargs {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(" " + w.String())
		}
	}
	return b.String()
}

// writeSnapshots captures every circuit and writes them as a JSON array.
func writeSnapshots(ctx context.Context, path string, circuits []*circuitfile.Circuit) error {
	logger := ctxlog.FromContext(ctx)

	snaps := make([]snapstore.CircuitSnapshot, 0, len(circuits))
	for _, c := range circuits {
		snap, err := snapstore.Capture(c.Name, c.DAG)
		if err != nil {
			return err
		}
		snaps = append(snaps, snap)
	}

	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}

	logger.Info("Snapshots written", "path", path, "count", len(snaps))
	return nil
}
