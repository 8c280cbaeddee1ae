// Package main provides the CLI entry point for vectra-bench, the
// VectraEdge client benchmark tool.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vectraedge/vectra-go/bench"
	"github.com/vectraedge/vectra-go/client"
	"github.com/vectraedge/vectra-go/config"
	"github.com/vectraedge/vectra-go/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "vectra-bench",
		Short: "VectraEdge client benchmark tool",
		Long: `Vectra-bench drives a VectraEdge engine through a repeatable set of
performance phases (connection, table ops, insertion, queries, vector
search, concurrency, memory pressure, stress) over either the remote
HTTP transport or the embedded in-process engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newQueryCmd(logger))
	root.AddCommand(newReplCmd(logger))

	return root
}

// clientFlags are the transport settings shared by every subcommand.
type clientFlags struct {
	host     string
	port     int
	embedded bool
	dataDir  string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.host, "host", "", "Engine host (default from config)")
	flags.IntVar(&f.port, "port", 0, "Engine port (default from config)")
	flags.BoolVar(&f.embedded, "embedded", false,
		"Use the embedded in-process engine instead of HTTP")
	flags.StringVar(&f.dataDir, "data-dir", "",
		"Embedded engine data directory (default from config)")
}

// resolve merges flag overrides into the loaded configuration.
func (f *clientFlags) resolve(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Host = f.host
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}

	if cmd.Flags().Changed("embedded") {
		cfg.Embedded = f.embedded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
}

func buildClient(cfg config.Config, logger *slog.Logger) (client.Client, error) {
	mode := client.ModeRemote

	if cfg.Embedded {
		if !client.DetectEmbeddedCapability(cfg.DataDir, logger) {
			return nil, fmt.Errorf(
				"embedded engine unavailable at %s", cfg.DataDir,
			)
		}

		mode = client.ModeEmbedded
	}

	return client.New(client.Config{
		Host:    cfg.Host,
		Port:    cfg.Port,
		Mode:    mode,
		DataDir: cfg.DataDir,
	}, logger)
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		cf     clientFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full benchmark suite",
		Long: `Run every benchmark phase in order against the configured transport,
print a summary, and write the results file. Partial results are printed
and written even when later phases fail.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			cf.resolve(cmd, &cfg)

			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}

			return runBenchmark(cmd.Context(), logger, cfg)
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", report.DefaultFilename,
		"Output file for benchmark results")

	return cmd
}

func runBenchmark(ctx context.Context, logger *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	c, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	logger.InfoContext(ctx, "starting benchmark",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.Bool("embedded", cfg.Embedded),
	)

	store := bench.NewStore()
	harness := bench.NewHarness(c, bench.DefaultConfig(), store, logger)
	harness.RunAll(ctx)

	report.Fprint(os.Stdout, store)

	file, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer file.Close()

	if err := report.WriteJSON(file, store); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	logger.InfoContext(ctx, "results written",
		slog.String("path", cfg.Output),
		slog.Int("results", store.Len()),
	)

	return nil
}

func newQueryCmd(logger *slog.Logger) *cobra.Command {
	var cf clientFlags

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Execute a single SQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			cf.resolve(cmd, &cfg)

			c, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.ExecuteQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(os.Stdout, result)
		},
	}

	cf.register(cmd)

	return cmd
}

func newReplCmd(logger *slog.Logger) *cobra.Command {
	var cf clientFlags

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query loop",
		Long: `Read statements from stdin and forward each one to the engine.
Type "exit" or "quit" to leave.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			cf.resolve(cmd, &cfg)

			c, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			return runRepl(cmd.Context(), c, os.Stdin, os.Stdout)
		},
	}

	cf.register(cmd)

	return cmd
}

func runRepl(ctx context.Context, c client.Client, in *os.File, out *os.File) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "vectra> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" {
			break
		}

		result, err := c.ExecuteQuery(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)

			continue
		}

		if err := printJSON(out, result); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func printJSON(out *os.File, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
