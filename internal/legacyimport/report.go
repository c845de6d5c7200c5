package legacyimport

import (
	"log/slog"
	"slices"
	"time"
)

// Table keys used in the Report.
const (
	TableEvents       = "events"
	TableTemplates    = "card_templates"
	TablePrintedCards = "printed_cards"
	TableEntries      = "user_cards"
	TableAlbums       = "albums"
)

// Record names one legacy document and what happened to it.
type Record struct {
	LegacyID string `json:"legacy_id"`
	Reason   string `json:"reason"`
}

// TableStats tracks one target table.
type TableStats struct {
	Table     string   `json:"table"`
	Processed int      `json:"processed"`
	Written   int      `json:"written"`
	Skipped   []Record `json:"skipped,omitempty"`
	Warnings  []Record `json:"warnings,omitempty"`
}

// Report summarizes an import run.
type Report struct {
	Tables     map[string]*TableStats `json:"tables"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
}

func newReport(now time.Time) *Report {
	return &Report{Tables: make(map[string]*TableStats), StartedAt: now}
}

func (r *Report) table(name string) *TableStats {
	stats, ok := r.Tables[name]
	if !ok {
		stats = &TableStats{Table: name}
		r.Tables[name] = stats
	}
	return stats
}

func (r *Report) processed(table string) {
	r.table(table).Processed++
}

func (r *Report) written(table string, n int) {
	r.table(table).Written += n
}

func (r *Report) skip(table, legacyID, reason string) {
	stats := r.table(table)
	stats.Skipped = append(stats.Skipped, Record{LegacyID: legacyID, Reason: reason})
}

func (r *Report) warn(table, legacyID, reason string) {
	stats := r.table(table)
	stats.Warnings = append(stats.Warnings, Record{LegacyID: legacyID, Reason: reason})
}

// TotalSkipped counts skipped documents across all tables.
func (r *Report) TotalSkipped() int {
	total := 0
	for _, stats := range r.Tables {
		total += len(stats.Skipped)
	}
	return total
}

// Log writes one summary line plus one line per table, in a stable order.
func (r *Report) Log(logger *slog.Logger) {
	logger.Info("legacy import completed",
		"duration", r.FinishedAt.Sub(r.StartedAt),
		"total_skipped", r.TotalSkipped(),
	)
	names := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		stats := r.Tables[name]
		logger.Info("legacy import table",
			"table", name,
			"processed", stats.Processed,
			"written", stats.Written,
			"skipped", len(stats.Skipped),
			"warnings", len(stats.Warnings),
		)
	}
}
