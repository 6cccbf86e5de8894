// internal/voicebench/report.go

package voicebench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9_]+`)
	slugDashRunRe = regexp.MustCompile(`-+`)
)

// Slugify converts an arbitrary name into a filesystem-safe file stem.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = slugDashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")

	return s
}

// WriteReport serializes the report to <dir>/<benchmark>-<profile>-<stamp>.json
// and returns the written path.
func WriteReport(report *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating report directory: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102-150405")
	fileName := filepath.Join(dir, fmt.Sprintf("%s-%s-%s.json", Slugify(report.Benchmark), Slugify(report.Profile), stamp))

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding report: %w", err)
	}

	return fileName, nil
}
