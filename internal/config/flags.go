package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Reference defaults applied by --default-test, matching the documented
// smoke-test configuration.
const (
	defaultTestQuery       = "hello-world"
	defaultTestTotal       = 500
	defaultTestConcurrency = 50
	defaultTestHost        = "127.0.0.1"
	defaultTestPort        = 8000
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "loadblast",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target flags
	flags.String("target", "", "Full target URL (overrides host/port/query)")
	flags.String("host", "", "Target host")
	flags.IntP("port", "p", 8000, "Target port")
	flags.StringP("query", "q", "", "Query parameter value")
	flags.String("path-template", DefaultPathTemplate, "URL template expanded with {host}, {port} and {query}")
	flags.StringSlice("header", nil, "Additional request header in key=value form")

	// Load control flags
	flags.IntP("total", "t", 0, "Total number of requests to send")
	flags.IntP("concurrency", "c", 1, "Max requests in flight at once")
	flags.Duration("timeout", DefaultTimeout, "Per-request timeout")
	flags.DurationP("deadline", "d", 0, "Global wall-clock budget for the whole run (0 = run to completion)")
	flags.Duration("grace-period", 0, "Extra time for in-flight requests once the deadline hits")
	flags.Bool("default-test", false, "Run with the predefined smoke-test values")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.StringP("output", "o", "", "Write the JSON summary to the given file")
	flags.Bool("dashboard", false, "Show live terminal dashboard with metrics")
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Performance thresholds (repeatable, e.g. 'req_duration:p99 < 500')")

	// Tracing flags
	flags.String("otlp-endpoint", "", "OTLP exporter endpoint (enables tracing)")
	flags.String("otlp-protocol", "grpc", "OTLP exporter protocol: 'grpc' or 'http'")
	flags.Bool("trace-propagate", false, "Inject W3C trace context headers into requests")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("default-test") {
		on, err := fs.GetBool("default-test")
		if err != nil {
			return err
		}
		if on {
			cfg.Query = defaultTestQuery
			cfg.Total = defaultTestTotal
			cfg.Concurrency = defaultTestConcurrency
			cfg.Host = defaultTestHost
			cfg.Port = defaultTestPort
		}
	}
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("host") {
		val, err := fs.GetString("host")
		if err != nil {
			return err
		}
		cfg.Host = strings.TrimSpace(val)
	}
	if fs.Changed("port") {
		val, err := fs.GetInt("port")
		if err != nil {
			return err
		}
		cfg.Port = val
	}
	if fs.Changed("query") {
		val, err := fs.GetString("query")
		if err != nil {
			return err
		}
		cfg.Query = val
	}
	if fs.Changed("path-template") {
		val, err := fs.GetString("path-template")
		if err != nil {
			return err
		}
		cfg.PathTemplate = strings.TrimSpace(val)
	}
	if fs.Changed("total") {
		val, err := fs.GetInt("total")
		if err != nil {
			return err
		}
		cfg.Total = val
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("deadline") {
		val, err := fs.GetDuration("deadline")
		if err != nil {
			return err
		}
		cfg.Deadline = val
	}
	if fs.Changed("grace-period") {
		val, err := fs.GetDuration("grace-period")
		if err != nil {
			return err
		}
		cfg.GracePeriod = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.OutputFile = strings.TrimSpace(val)
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}
	if fs.Changed("otlp-endpoint") {
		val, err := fs.GetString("otlp-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("otlp-protocol") {
		val, err := fs.GetString("otlp-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("trace-propagate") {
		val, err := fs.GetBool("trace-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = val
	}

	vals, err := fs.GetStringSlice("header")
	if err != nil {
		return err
	}
	if len(vals) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for _, entry := range vals {
			parts := strings.SplitN(entry, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("header must be in key=value format: %s", entry)
			}
			key := http.CanonicalHeaderKey(strings.TrimSpace(parts[0]))
			if key == "" {
				return fmt.Errorf("header key cannot be empty")
			}
			cfg.Headers[key] = strings.TrimSpace(parts[1])
		}
	}

	return nil
}
