package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// DefaultPathTemplate is the reference target shape. The template is a
// configuration value, not a contract; {host}, {port} and {query} expand
// from the corresponding fields.
const DefaultPathTemplate = "http://{host}:{port}/chat/?query={query}"

type Config struct {
	TargetURL    string            `mapstructure:"target"`
	Host         string            `mapstructure:"host"`
	Port         int               `mapstructure:"port"`
	Query        string            `mapstructure:"query"`
	PathTemplate string            `mapstructure:"path_template"`
	Headers      map[string]string `mapstructure:"headers"`
	Total        int               `mapstructure:"total"`
	Concurrency  int               `mapstructure:"concurrency"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	Deadline     time.Duration     `mapstructure:"deadline"`
	GracePeriod  time.Duration     `mapstructure:"grace_period"`
	JSONOutput   bool              `mapstructure:"json_output"`
	OutputFile   string            `mapstructure:"output_file"`
	Dashboard    bool              `mapstructure:"dashboard"`
	LogErrors    bool              `mapstructure:"log_errors"`
	Thresholds   []string          `mapstructure:"thresholds"`
	Tracing      TracingConfig     `mapstructure:"tracing"`
	ConfigFile   string            `mapstructure:"-"`
}

// TracingConfig controls the optional OpenTelemetry export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Propagate   bool    `mapstructure:"propagate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// Enabled reports whether an exporter endpoint has been configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate reports whether W3C trace headers are injected into
// outgoing requests.
func (t TracingConfig) ShouldPropagate() bool {
	return t.Propagate
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the configuration before any request is issued. A failure
// here terminates the run; nothing is retried or partially executed.
func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.TargetURL) == "" && strings.TrimSpace(c.Host) == "" {
		issues = append(issues, "target or host is required (use --help for usage information)")
	}
	if strings.TrimSpace(c.TargetURL) == "" && strings.TrimSpace(c.Host) != "" {
		if c.Port < 1 || c.Port > 65535 {
			issues = append(issues, "port must be between 1 and 65535")
		}
	}
	if c.Total < 1 {
		issues = append(issues, "total must be >= 1")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.Deadline < 0 {
		issues = append(issues, "deadline must be >= 0")
	}
	if c.GracePeriod < 0 {
		issues = append(issues, "grace-period must be >= 0")
	}
	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json-output are mutually exclusive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		issues = append(issues, "tracing sample_rate must be between 0.0 and 1.0")
	}
	if p := strings.ToLower(strings.TrimSpace(c.Tracing.Protocol)); p != "" && p != "grpc" && p != "http" {
		issues = append(issues, fmt.Sprintf("tracing protocol %q is not supported (use grpc or http)", c.Tracing.Protocol))
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
