package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitsync/fitsync/internal/config"
	"github.com/fitsync/fitsync/internal/fitbit"
	"github.com/fitsync/fitsync/internal/logging"
	"github.com/fitsync/fitsync/internal/metrics"
	"github.com/fitsync/fitsync/internal/notify"
	"github.com/fitsync/fitsync/internal/notion"
	"github.com/fitsync/fitsync/internal/syncer"
)

var syncFlags struct {
	Window int
	DryRun bool
}

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass over the trailing date window",
	Long: `Run one full sync pass: compute the trailing date window, ask the
destination which dates are missing, fetch all four metric categories for
each missing date and create one page per date.

Example:
  fitsync sync
  fitsync sync --window 3 --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncFlags.Window, "window", 0, "Trailing window size in days (overrides config)")
	syncCmd.Flags().BoolVar(&syncFlags.DryRun, "dry-run", false, "Fetch and filter but skip destination writes")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOptional(globalFlags.Config)
	if err != nil {
		return err
	}
	if syncFlags.Window > 0 {
		cfg.Sync.WindowDays = syncFlags.Window
	}

	level := logging.LogLevel(cfg.Log.Level)
	if globalFlags.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(logging.WithLevel(level))
	logger.Info("starting sync run", "window_days", cfg.Sync.WindowDays, "dry_run", syncFlags.DryRun)

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	m := metrics.New("fitsync")
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	session := fitbit.NewSession(fitbit.SessionOptions{
		ClientID:      creds.FitbitClientID,
		ClientSecret:  creds.FitbitClientSecret,
		RefreshToken:  creds.FitbitRefreshToken,
		HTTPClient:    httpClient,
		RetryAttempts: cfg.Token.RetryAttempts,
		RetryDelay:    cfg.Token.RetryDelay,
		Sink:          config.EnvTokenSink{},
		Logger:        logger,
		OnRefresh:     m.TokenRefreshes.Inc,
	})

	s := syncer.New(syncer.Options{
		Session: session,
		Fitbit: fitbit.NewClient(fitbit.ClientOptions{
			Session:    session,
			HTTPClient: httpClient,
			Logger:     logger,
		}),
		Notion: notion.NewClient(notion.ClientOptions{
			Token:          creds.NotionToken,
			DatabaseID:     creds.NotionDatabaseID,
			HTTPClient:     httpClient,
			Logger:         logger,
			OnQueryFailure: m.QueryFailures.Inc,
		}),
		Metrics:    m,
		Logger:     logger,
		WindowDays: cfg.Sync.WindowDays,
		DryRun:     syncFlags.DryRun,
	})

	var notifier *notify.TelegramNotifier
	if cfg.Telegram.Enabled {
		notifier, err = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			// Notification is best-effort; a broken bot must not block the sync.
			logger.Warn("telegram notifier unavailable", "error", err.Error())
			notifier = nil
		}
	}

	summary, runErr := s.Run(cmd.Context())

	if cfg.Metrics.PushgatewayURL != "" {
		if err := m.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			logger.Warn("metrics push failed", "error", err.Error())
		}
	}

	if runErr != nil {
		if notifier != nil {
			notifier.NotifyFailure(runErr)
		}
		return runErr
	}

	if notifier != nil {
		notifier.NotifySummary(summary)
	}

	if globalFlags.JSON {
		return outputSummaryJSON(os.Stdout, summary)
	}
	fmt.Fprintln(os.Stdout, notify.FormatSummary(summary))
	return nil
}

func outputSummaryJSON(w io.Writer, summary *syncer.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
