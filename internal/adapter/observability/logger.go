package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/fairyhunter13/profrag/internal/config"
)

// SetupLogger configures a JSON slog logger on stdout tagged with the run id.
func SetupLogger(cfg config.Config, runID string) *slog.Logger {
	return newLogger(os.Stdout, cfg, runID)
}

func newLogger(w io.Writer, cfg config.Config, runID string) *slog.Logger {
	opts := &slog.HandlerOptions{}
	// In dev, show debug level (raw embedding responses included); otherwise info
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, opts)
	logger := slog.New(h).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
	if runID != "" {
		logger = logger.With(slog.String("run_id", runID))
	}
	return logger
}
