package syncer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fitsync/fitsync/internal/fitbit"
	"github.com/fitsync/fitsync/internal/logging"
	"github.com/fitsync/fitsync/internal/metrics"
	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/notion"
)

// Options configures a Syncer.
type Options struct {
	Session    *fitbit.Session
	Fitbit     *fitbit.Client
	Notion     *notion.Client
	Metrics    *metrics.Metrics
	Logger     *logging.Logger
	WindowDays int
	// DryRun fetches and filters but skips destination writes.
	DryRun bool
	// Progress receives the human-readable per-date lines. Default: stdout.
	Progress io.Writer
	// Now is the clock used to compute the trailing window. Default: time.Now.
	Now func() time.Time
}

// Syncer drives one full pass: trailing window, existence filter, per-date
// fetch and write. Strictly sequential; every call completes or fails before
// the next begins.
type Syncer struct {
	session  *fitbit.Session
	fitbit   *fitbit.Client
	notion   *notion.Client
	metrics  *metrics.Metrics
	logger   *logging.Logger
	days     int
	dryRun   bool
	progress io.Writer
	now      func() time.Time
}

// Summary describes what one run did.
type Summary struct {
	Window           []string      `json:"window"`
	Synced           []string      `json:"synced"`
	Skipped          int           `json:"skipped"`
	Failed           []string      `json:"failed"`
	NoData           []string      `json:"no_data"`
	CategoryFailures int           `json:"category_failures"`
	Duration         time.Duration `json:"duration_ns"`
}

// New creates a Syncer.
func New(opts Options) *Syncer {
	if opts.WindowDays < 1 {
		opts.WindowDays = 7
	}
	if opts.Progress == nil {
		opts.Progress = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New("fitsync")
	}

	return &Syncer{
		session:  opts.Session,
		fitbit:   opts.Fitbit,
		notion:   opts.Notion,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		days:     opts.WindowDays,
		dryRun:   opts.DryRun,
		progress: opts.Progress,
		now:      opts.Now,
	}
}

// Run executes one pass. It returns an error only for failures that abort
// the whole run: a dead credential or an unusable token. Per-date write
// failures are logged, counted, and the loop continues; skipping a date
// is recoverable on the next scheduled run, a half-finished window is not
// worth aborting for.
func (s *Syncer) Run(ctx context.Context) (*Summary, error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveRunDuration(time.Since(start))
	}()

	if err := s.session.Refresh(ctx); err != nil {
		return nil, err
	}

	window := Window(start, s.days)
	s.logger.Info("computed trailing window", "days", s.days, "from", window[len(window)-1], "to", window[0])

	missing := s.notion.Unrecorded(ctx, window)
	summary := &Summary{
		Window:  window,
		Skipped: len(window) - len(missing),
	}
	s.metrics.DatesSkipped.Add(float64(summary.Skipped))

	if len(missing) == 0 {
		fmt.Fprintf(s.progress, "✓ all %d dates in the window are already recorded\n", len(window))
		summary.Duration = time.Since(start)
		return summary, nil
	}

	for _, date := range missing {
		s.syncDate(ctx, date, summary)
	}

	summary.Duration = time.Since(start)
	s.logger.Info("run complete",
		"synced", len(summary.Synced),
		"skipped", summary.Skipped,
		"failed", len(summary.Failed),
		"no_data", len(summary.NoData),
	)
	return summary, nil
}

func (s *Syncer) syncDate(ctx context.Context, date string, summary *Summary) {
	record := s.collect(ctx, date, summary)

	if record.Empty() {
		// Nothing fetched for any category: a page with just the date would
		// permanently mask the gap from future runs, so leave the date
		// unrecorded instead.
		fmt.Fprintf(s.progress, "! %s: no data in any category, leaving unrecorded\n", date)
		summary.NoData = append(summary.NoData, date)
		return
	}

	if s.dryRun {
		fmt.Fprintf(s.progress, "✓ %s: would write %d metrics (dry run)\n", date, len(record.Flatten()))
		summary.Synced = append(summary.Synced, date)
		return
	}

	if err := s.notion.CreatePage(ctx, record); err != nil {
		s.logger.Error("record write failed", "date", date, "error", err.Error())
		s.metrics.WriteFailures.Inc()
		fmt.Fprintf(s.progress, "✗ %s: write failed: %v\n", date, err)
		summary.Failed = append(summary.Failed, date)
		return
	}

	s.metrics.DatesSynced.Inc()
	summary.Synced = append(summary.Synced, date)
	s.printDateSummary(date, record)
}

// collect fetches all four categories for a date. A category fetch error
// degrades to "no data" for that category rather than aborting the date.
func (s *Syncer) collect(ctx context.Context, date string, summary *Summary) *models.DailyRecord {
	record := models.NewDailyRecord(date)

	for _, cf := range s.fitbit.CategoryFetchers() {
		res, err := cf.Fetch(ctx, date)
		if err != nil {
			s.logger.Warn("category fetch failed, treating as no data",
				"date", date,
				"category", string(cf.Category),
				"error", err.Error(),
			)
			s.metrics.FetchFailures.WithLabelValues(string(cf.Category)).Inc()
			summary.CategoryFailures++
			continue
		}
		if res.Empty {
			continue
		}
		record.Set(cf.Category, res.Metrics)
	}

	return record
}

func (s *Syncer) printDateSummary(date string, record *models.DailyRecord) {
	fmt.Fprintf(s.progress, "✓ %s synced\n", date)
	for _, cat := range models.Categories {
		if !record.Has(cat) {
			continue
		}
		for name, value := range record.Categories[cat] {
			fmt.Fprintf(s.progress, "    %s: %g\n", models.TitleLabel(name), value)
		}
	}
}
