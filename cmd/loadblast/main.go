package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/probekit/loadblast/internal/config"
	"github.com/probekit/loadblast/internal/dashboard"
	"github.com/probekit/loadblast/internal/httpclient"
	"github.com/probekit/loadblast/internal/metrics"
	"github.com/probekit/loadblast/internal/output"
	"github.com/probekit/loadblast/internal/probe"
	"github.com/probekit/loadblast/internal/runner"
	"github.com/probekit/loadblast/internal/threshold"
	"github.com/probekit/loadblast/internal/tracing"
)

const progressInterval = time.Second

type stderrFailureLogger struct {
	mu sync.Mutex
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "probe":
			return runProbe(args[1:], stdout)
		case "sample-config":
			return config.WriteExample(stdout)
		}
	}
	return runLoadTest(args, stdout)
}

func runLoadTest(args []string, stdout io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(cfg.Timeout)
	requester, err := httpclient.NewRequester(cfg, client)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Tracing.Enabled() {
		provider, err := tracing.Init(ctx, cfg.Tracing)
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: tracing shutdown: %v\n", err)
			}
		}()
		requester = requester.WithTracing(provider.Tracer(), provider.ShouldPropagate())
	}

	collector := metrics.NewCollector()

	var transport runner.Transport = requester
	if cfg.LogErrors {
		transport = runner.WithLogging(transport, &stderrFailureLogger{})
	}

	r := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		TotalRequests: cfg.Total,
		Deadline:      cfg.Deadline,
		GracePeriod:   cfg.GracePeriod,
		Transport:     transport,
		Observer:      collector,
	})

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.TestConfig{
			TargetURL:   requester.Target(),
			Concurrency: cfg.Concurrency,
			Total:       cfg.Total,
			Timeout:     cfg.Timeout,
			Deadline:    cfg.Deadline,
			ConfigFile:  cfg.ConfigFile,
		}, cancel)
		if err != nil {
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, progressInterval, stdout)
		progress.Start()
	}

	collector.Start()
	result := r.Run(ctx)

	// Tear the live views down before the final report so it lands on a
	// restored terminal.
	if progress != nil {
		progress.Stop()
		fmt.Fprintln(stdout)
	}
	if dash != nil {
		dash.Stop()
	}

	summary := metrics.Summarize(result.Set, result.Elapsed)
	summary.RunID = metrics.NewRunID()

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, summary); err != nil {
			return err
		}
	} else {
		output.PrintReport(stdout, summary)
	}

	if cfg.OutputFile != "" {
		if err := output.WriteJSONFile(cfg.OutputFile, summary); err != nil {
			return fmt.Errorf("writing summary to %s: %w", cfg.OutputFile, err)
		}
	}

	// Failed requests are part of the report, not a process failure.
	// Only an unmet threshold turns the exit code nonzero.
	if len(thresholds) > 0 {
		results := threshold.Evaluate(thresholds, summary)
		fmt.Fprintln(stdout, "\nThresholds:")
		for _, res := range results {
			fmt.Fprintf(stdout, "  %s\n", res.Message)
		}
		if !threshold.AllPassed(results) {
			return errors.New("one or more thresholds failed")
		}
	}

	return nil
}

func runProbe(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	host := fs.String("host", "127.0.0.1", "Server host")
	port := fs.IntP("port", "p", 8000, "Server port")
	path := fs.String("path", probe.DefaultPath, "JSON-RPC endpoint path")
	timeout := fs.Duration("timeout", 10*time.Second, "Overall probe timeout")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := &http.Client{Timeout: *timeout}
	report := probe.New(*host, *port, client).WithPath(*path).Run(ctx)
	report.Print(stdout)

	if !report.OK() {
		return errors.New("probe failed")
	}
	return nil
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[loadblast] request failed: %v\n", err)
}
