package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

// Formatter formats results for output.
type Formatter interface {
	FormatResult(w io.Writer, result *Result) error
	FormatBurst(w io.Writer, result *BurstResult) error
	FormatError(w io.Writer, err error) error
	FormatProfiles(w io.Writer, profiles *Profiles, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	// Quiet prints only the response body, or nothing for bursts.
	Quiet bool
}

// FormatResult prints the status line, the interesting headers and the body.
func (f *HumanFormatter) FormatResult(w io.Writer, result *Result) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "%s %s -> %d %s (%s, %s)\n",
			result.Method, result.Path, result.Status, statusText(result.Status),
			formatSize(result.Size), result.Duration.Round(time.Millisecond))
		if result.ContentType != "" {
			_, _ = fmt.Fprintf(w, "  Content-Type: %s\n", result.ContentType)
		}
		if rl := result.RateLimit; rl != nil {
			if rl.Limit != "" {
				_, _ = fmt.Fprintf(w, "  Rate limit: %s remaining of %s\n", rl.Remaining, rl.Limit)
			}
			if rl.RetryAfter != "" {
				_, _ = fmt.Fprintf(w, "  Retry-After: %ss\n", rl.RetryAfter)
			}
		}
	}
	if result.Body != "" {
		_, _ = fmt.Fprintln(w, strings.TrimRight(result.Body, "\n"))
	}
	return nil
}

// FormatBurst prints one line per status code, ordered by code.
func (f *HumanFormatter) FormatBurst(w io.Writer, result *BurstResult) error {
	if f.Quiet {
		return nil
	}

	_, _ = fmt.Fprintf(w, "%s %s x%d in %s\n", result.Method, result.Path, result.Total,
		result.Duration.Round(time.Millisecond))

	codes := make([]int, 0, len(result.Statuses))
	for code := range result.Statuses {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	for _, code := range codes {
		_, _ = fmt.Fprintf(w, "  %d %-20s %d\n", code, statusText(code), result.Statuses[code])
	}
	if result.Errors > 0 {
		_, _ = fmt.Fprintf(w, "  %-24s %d\n", "transport errors", result.Errors)
	}
	if result.FirstLimited > 0 {
		_, _ = fmt.Fprintf(w, "First 429 at request #%d\n", result.FirstLimited)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfiles prints one row per profile, sorted by name, with the
// current profile marked by an asterisk.
func (f *HumanFormatter) FormatProfiles(w io.Writer, profiles *Profiles, showSecrets bool) error {
	names := profiles.Names()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured.")
		return nil
	}

	nameWidth, endpointWidth := len("NAME"), len("ENDPOINT")
	for _, name := range names {
		nameWidth = max(nameWidth, len(name))
		endpointWidth = max(endpointWidth, len(profiles.Servers[name].Endpoint))
	}
	nameWidth = min(nameWidth, 20)
	endpointWidth = min(endpointWidth, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-12s  %-12s  %s\n",
		nameWidth, "NAME", endpointWidth, "ENDPOINT", "USERNAME", "PASSWORD", "BURST")
	for _, name := range names {
		p := profiles.Servers[name]
		marker := " "
		if name == profiles.Current {
			marker = "*"
		}
		burst := p.Burst()
		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-12s  %-12s  %d x %s (j=%d)\n", marker,
			nameWidth, truncate(name, nameWidth),
			endpointWidth, truncate(p.Endpoint, endpointWidth),
			orNotSet(p.Username), maskSecret(p.Password, showSecrets),
			burst.Count, burst.Path, burst.Concurrency)
	}
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatResult formats a result as JSON.
func (f *JSONFormatter) FormatResult(w io.Writer, result *Result) error {
	return writeJSON(w, result)
}

// FormatBurst formats a burst tally as JSON.
func (f *JSONFormatter) FormatBurst(w io.Writer, result *BurstResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfiles formats the profile file as JSON, with the burst defaults
// resolved.
func (f *JSONFormatter) FormatProfiles(w io.Writer, profiles *Profiles, showSecrets bool) error {
	type jsonProfile struct {
		Name     string       `json:"name"`
		Endpoint string       `json:"endpoint"`
		Username string       `json:"username,omitempty"`
		Password string       `json:"password,omitempty"`
		Current  bool         `json:"current,omitempty"`
		Burst    BurstOptions `json:"burst"`
	}

	out := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{Profiles: []jsonProfile{}}

	for _, name := range profiles.Names() {
		p := profiles.Servers[name]
		out.Profiles = append(out.Profiles, jsonProfile{
			Name:     name,
			Endpoint: p.Endpoint,
			Username: p.Username,
			Password: maskSecret(p.Password, showSecrets),
			Current:  name == profiles.Current,
			Burst:    p.Burst(),
		})
	}

	return writeJSON(w, out)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskSecret hides a secret unless showSecrets is set.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	return "********"
}
