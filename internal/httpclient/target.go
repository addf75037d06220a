package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/probekit/loadblast/internal/config"
)

// ResolveTarget produces the fully resolved request URL. A non-empty target
// URL wins; otherwise the path template is expanded with the host, port and
// query fields.
func ResolveTarget(cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", errors.New("config cannot be nil")
	}

	target := strings.TrimSpace(cfg.TargetURL)
	if target == "" {
		host := strings.TrimSpace(cfg.Host)
		if host == "" {
			return "", errors.New("target or host is required")
		}
		template := strings.TrimSpace(cfg.PathTemplate)
		if template == "" {
			template = config.DefaultPathTemplate
		}
		replacer := strings.NewReplacer(
			"{host}", host,
			"{port}", strconv.Itoa(cfg.Port),
			"{query}", url.QueryEscape(cfg.Query),
		)
		target = replacer.Replace(template)
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported target scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", errors.New("target URL has no host")
	}

	return parsed.String(), nil
}
