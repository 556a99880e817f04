package specs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quillworks/quill/pkg/metrics"
	"github.com/quillworks/quill/prompt"
)

// Export compiles and evaluates a stored spec, then uploads the prompt
// document and rubric report to blob storage concurrently.
func (r *repo) Export(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	markdown := prompt.Compile(s.State)
	report := prompt.Evaluate(s.State)

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	promptKey := fmt.Sprintf("specs/%s/%s-prompt.md", s.ID, stamp)
	reportKey := fmt.Sprintf("specs/%s/%s-report.json", s.ID, stamp)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.store.Upload(gctx, promptKey, strings.NewReader(markdown), "text/markdown")
	})
	g.Go(func() error {
		return r.store.Upload(gctx, reportKey, strings.NewReader(string(reportJSON)), "application/json")
	})

	if err := g.Wait(); err != nil {
		metrics.RecordExport("error")
		return nil, fmt.Errorf("export spec %s: %w", s.ID, err)
	}

	metrics.RecordExport("success")
	r.logger.Info("spec exported", "id", s.ID, "prompt_key", promptKey, "report_key", reportKey)

	return &ExportResult{
		SpecID:    s.ID,
		PromptKey: promptKey,
		ReportKey: reportKey,
	}, nil
}
