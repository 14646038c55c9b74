package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
	"github.com/carloscrcalderonr/finmaq-test/internal/etl"
	"github.com/carloscrcalderonr/finmaq-test/internal/infrastructure/snapshot"
	"github.com/carloscrcalderonr/finmaq-test/internal/ports"
)

// PipelineDeps wires the four stages and the snapshot side-observer.
type PipelineDeps struct {
	Extractor   *etl.Extractor
	Cleaner     *etl.CleanerValidator
	Transformer *etl.Transformer
	Loader      *etl.Loader
	Snapshots   ports.SnapshotWriter
	Logger      *slog.Logger
}

// Pipeline sequences extract, clean/validate, transform and load. The first
// stage error aborts the remaining stages; rows already committed by earlier
// batches stay committed.
type Pipeline struct {
	extractor   *etl.Extractor
	cleaner     *etl.CleanerValidator
	transformer *etl.Transformer
	loader      *etl.Loader
	snapshots   ports.SnapshotWriter
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		extractor:   deps.Extractor,
		cleaner:     deps.Cleaner,
		transformer: deps.Transformer,
		loader:      deps.Loader,
		snapshots:   deps.Snapshots,
		logger:      deps.Logger,
	}
}

// Run executes one full pipeline pass.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")

	summaries, err := p.extractor.ExtractSummaries(ctx)
	if err != nil {
		return fmt.Errorf("extract summaries: %w", err)
	}
	p.logger.Info("summaries extracted", "count", len(summaries))
	p.snapshotSummaries("movies_api.csv", summaries)

	ids := make([]int, len(summaries))
	for i, summary := range summaries {
		ids[i] = summary.ID
	}

	details, err := p.extractor.ExtractDetails(ctx, ids)
	if err != nil {
		return fmt.Errorf("extract details: %w", err)
	}
	p.logger.Info("details extracted", "count", len(details))
	p.snapshotDetails("details_api.csv", details)

	cleaned, audit, err := p.cleaner.CleanAndValidate(summaries, details)
	if err != nil {
		return fmt.Errorf("clean and validate: %w", err)
	}
	p.logger.Info("rows cleaned", "count", len(cleaned))
	p.snapshotAudit(audit)

	transformed := p.transformer.Transform(cleaned)
	p.logger.Info("rows transformed", "count", len(transformed))
	p.snapshotTransformed("movies_transformed.csv", transformed)
	p.snapshotTransformed("movies_zero_budget.csv", filterZeroBudget(transformed))
	p.snapshotTransformed("movies_zero_revenue.csv", filterZeroRevenue(transformed))

	if err := p.loader.Load(ctx, transformed); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	p.logger.Info("pipeline finished", "loaded", len(transformed))
	return nil
}

func filterZeroBudget(rows []domain.TransformedMovie) []domain.TransformedMovie {
	var filtered []domain.TransformedMovie
	for _, row := range rows {
		if row.BudgetUSD == 0 {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func filterZeroRevenue(rows []domain.TransformedMovie) []domain.TransformedMovie {
	var filtered []domain.TransformedMovie
	for _, row := range rows {
		if row.RevenueUSD == 0 {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// Snapshots are observability only; failures are logged and swallowed. Audit
// channels dump only when non-empty, mirroring the inspection files the
// operators actually read.

func (p *Pipeline) snapshotSummaries(name string, rows []domain.MovieSummary) {
	header, records := snapshot.SummaryRecords(rows)
	p.writeSnapshot(name, header, records)
}

func (p *Pipeline) snapshotDetails(name string, rows []domain.MovieDetail) {
	header, records := snapshot.DetailRecords(rows)
	p.writeSnapshot(name, header, records)
}

func (p *Pipeline) snapshotTransformed(name string, rows []domain.TransformedMovie) {
	header, records := snapshot.TransformedRecords(rows)
	p.writeSnapshot(name, header, records)
}

func (p *Pipeline) snapshotAudit(audit *etl.Audit) {
	for reason, rows := range audit.Summaries {
		if len(rows) == 0 {
			continue
		}
		p.logger.Info("rows audited", "reason", string(reason), "count", len(rows))
		p.snapshotSummaries(auditFilename(reason), rows)
	}
	for reason, rows := range audit.Details {
		if len(rows) == 0 {
			continue
		}
		p.logger.Info("rows audited", "reason", string(reason), "count", len(rows))
		p.snapshotDetails(auditFilename(reason), rows)
	}
}

func auditFilename(reason etl.AuditReason) string {
	return "discarded_" + string(reason) + ".csv"
}

func (p *Pipeline) writeSnapshot(name string, header []string, records [][]string) {
	if p.snapshots == nil {
		return
	}
	if err := p.snapshots.Write(name, header, records); err != nil {
		p.logger.Warn("snapshot write failed", "file", name, "error", err)
	}
}
