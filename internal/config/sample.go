package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// sampleConfig mirrors the file-facing Config fields with YAML tags so the
// generated example round-trips through the loader.
type sampleConfig struct {
	Host         string              `yaml:"host"`
	Port         int                 `yaml:"port"`
	Query        string              `yaml:"query"`
	PathTemplate string              `yaml:"path_template"`
	Total        int                 `yaml:"total"`
	Concurrency  int                 `yaml:"concurrency"`
	Timeout      string              `yaml:"timeout"`
	Deadline     string              `yaml:"deadline"`
	GracePeriod  string              `yaml:"grace_period"`
	JSONOutput   bool                `yaml:"json_output"`
	LogErrors    bool                `yaml:"log_errors"`
	Thresholds   []string            `yaml:"thresholds"`
	Tracing      sampleTracingConfig `yaml:"tracing"`
}

type sampleTracingConfig struct {
	Endpoint   string  `yaml:"endpoint"`
	Protocol   string  `yaml:"protocol"`
	SampleRate float64 `yaml:"sample_rate"`
	Propagate  bool    `yaml:"propagate"`
}

// WriteExample emits a ready-to-edit YAML configuration.
func WriteExample(w io.Writer) error {
	sample := sampleConfig{
		Host:         defaultTestHost,
		Port:         defaultTestPort,
		Query:        defaultTestQuery,
		PathTemplate: DefaultPathTemplate,
		Total:        defaultTestTotal,
		Concurrency:  defaultTestConcurrency,
		Timeout:      DefaultTimeout.String(),
		Deadline:     "0s",
		GracePeriod:  "5s",
		Thresholds: []string{
			"req_duration:p99 < 500",
			"req_failed:rate < 0.01",
		},
		Tracing: sampleTracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}

	fmt.Fprintln(w, "# loadblast configuration")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(sample)
}
