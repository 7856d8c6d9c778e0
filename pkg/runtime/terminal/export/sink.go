package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultArtifactName = "tenant_health"

// Publisher is anything a finished region report can be handed to.
type Publisher interface {
	Publish(ctx context.Context, report domain.RegionReport) error
}

// FileSink writes a JSON and a text artifact per region into a directory.
type FileSink struct {
	dir  string
	name string
	now  func() time.Time
}

func NewFileSink(dir string, name string, now func() time.Time) *FileSink {
	if name == "" {
		name = DefaultArtifactName
	}
	if now == nil {
		now = time.Now
	}
	return &FileSink{dir: dir, name: name, now: now}
}

func (s *FileSink) Publish(ctx context.Context, report domain.RegionReport) error {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}

	ts := timestamp(s.now())
	prefix := fmt.Sprintf("%s_%s", s.name, report.Region)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode region report: %w", err)
	}
	jsonPath := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", prefix, ts))
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}
	logger.Info().Str("path", jsonPath).Int("tenants", len(report.Tenants)).Msg("saved region records")

	var buf bytes.Buffer
	if err := NewReporter(&buf).Handle(report); err != nil {
		return fmt.Errorf("failed to render region report: %w", err)
	}
	textPath := filepath.Join(s.dir, fmt.Sprintf("%s_report_%s.txt", prefix, ts))
	if err := os.WriteFile(textPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", textPath, err)
	}
	logger.Info().Str("path", textPath).Msg("saved region report")

	return nil
}

// timestamp keeps millisecond precision and only uses characters that are
// safe in file names on every platform.
func timestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// MultiSink publishes to every sink and joins their failures.
type MultiSink []Publisher

func (m MultiSink) Publish(ctx context.Context, report domain.RegionReport) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
