package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/nfrt-cache/internal/config"
	"github.com/allaspectsdev/nfrt-cache/internal/maintenance"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
	"github.com/allaspectsdev/nfrt-cache/internal/version"
)

// maintenanceTick is how often the background sweep loop fires; the sweep
// itself is still rate-gated by maintenance.PerformMaintenance, so a short
// tick just means the gate is checked promptly once it opens.
const maintenanceTick = 10 * time.Minute

// Run is the main daemon orchestrator. It sets up logging, guards against a
// second instance via the PID file, wires config hot-reload, runs the
// periodic maintenance sweep, and serves the status/health HTTP surface
// until a shutdown signal arrives.
func Run(cfg *config.Config, foreground bool) error {
	home := store.NewHome(cfg.Store.Home)
	if err := home.EnsureIntermediateResultsDir(); err != nil {
		return fmt.Errorf("creating cache home %s: %w", cfg.Store.Home, err)
	}

	zerolog.SetGlobalLevel(parseLogLevel(cfg.Logging.Level))

	var writers []io.Writer

	logPath := filepath.Join(cfg.Store.Home, "nfrt-cache-daemon.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", logPath, err)
	}
	defer logFile.Close()
	writers = append(writers, logFile)

	if foreground {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	}

	multi := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Str("service", version.Name).Logger()

	log.Info().
		Str("version", version.Version).
		Str("home", cfg.Store.Home).
		Bool("foreground", foreground).
		Msg("nfrt-cache daemon starting")

	if IsRunning(cfg.Store.Home) {
		return fmt.Errorf("daemon already running (PID file exists at %s)", filepath.Join(cfg.Store.Home, pidFilename))
	}

	if err := WritePID(cfg.Store.Home); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() {
		if err := RemovePID(cfg.Store.Home); err != nil {
			log.Error().Err(err).Msg("failed to remove PID file")
		}
	}()
	log.Info().Int("pid", os.Getpid()).Msg("PID file written")

	var currentMaintCfg atomic.Pointer[maintenance.Config]
	mc := cfg.Maintenance
	currentMaintCfg.Store(&mc)

	configFile := config.ConfigFilePath()
	if configFile == "" {
		configFile = filepath.Join(cfg.Store.Home, config.DefaultConfigFilename)
	}

	var watcher *config.Watcher
	if _, statErr := os.Stat(configFile); statErr == nil {
		w, watchErr := config.Watch(configFile)
		if watchErr != nil {
			log.Warn().Err(watchErr).Msg("failed to start config watcher; continuing without hot-reload")
		} else {
			watcher = w
			defer watcher.Close()
			watcher.OnChange(func(old, newCfg *config.Config) {
				log.Info().Msg("configuration reloaded")
				zerolog.SetGlobalLevel(parseLogLevel(newCfg.Logging.Level))
				updated := newCfg.Maintenance
				currentMaintCfg.Store(&updated)
			})
			log.Info().Str("file", configFile).Msg("config watcher started")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount, lastDeleted atomic.Int64
	var lastRun atomic.Value
	maintDone := make(chan struct{})
	go func() {
		defer close(maintDone)
		runMaintenanceLoop(ctx, home, &currentMaintCfg, &runCount, &lastDeleted, &lastRun)
	}()

	r := chi.NewRouter()
	r.Get("/healthz", healthzHandler)
	r.Get("/status", statusHandler(home, &runCount, &lastDeleted, &lastRun))

	statusServer := &http.Server{
		Addr:    cfg.Server.StatusAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.StatusAddr).Msg("status server starting")
		if err := statusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("status server: %w", err)
		}
	}()

	if foreground {
		fmt.Printf("\n  nfrt-cache daemon is running!\n")
		fmt.Printf("  Home:   %s\n", cfg.Store.Home)
		fmt.Printf("  Status: http://%s/status\n\n", cfg.Server.StatusAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("fatal server error")
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Info().Msg("shutting down...")
	if err := statusServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("status server shutdown error")
	}

	cancel()
	<-maintDone

	log.Info().Msg("nfrt-cache daemon stopped")
	return nil
}

// runMaintenanceLoop runs PerformMaintenance once at startup and then every
// maintenanceTick until ctx is cancelled, always reading the latest
// hot-reloaded maintenance config.
func runMaintenanceLoop(ctx context.Context, home *store.Home, cfgPtr *atomic.Pointer[maintenance.Config], runCount, lastDeleted *atomic.Int64, lastRun *atomic.Value) {
	runOnce := func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("maintenance: recovered from panic")
			}
		}()
		cfg := *cfgPtr.Load()
		stats, err := maintenance.PerformMaintenance(home, cfg)
		if err != nil {
			log.Error().Err(err).Msg("maintenance run failed")
			return
		}
		if stats.Reason == maintenance.ReasonCompleted {
			runCount.Add(1)
			lastDeleted.Store(int64(stats.EntriesDeleted))
			lastRun.Store(time.Now())
			log.Info().
				Int("entries_deleted", stats.EntriesDeleted).
				Int64("bytes_freed", stats.BytesFreed).
				Msg("maintenance completed")
		}
	}

	runOnce()

	ticker := time.NewTicker(maintenanceTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func statusHandler(home *store.Home, runCount, lastDeleted *atomic.Int64, lastRun *atomic.Value) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, _ := store.ScanIntermediateResults(home)

		var lastRunStr string
		if t, ok := lastRun.Load().(time.Time); ok {
			lastRunStr = t.Format(time.RFC3339)
		}

		payload := map[string]any{
			"version":              version.Version,
			"home":                 home.Root,
			"entries":              len(entries),
			"maintenance_runs":     runCount.Load(),
			"last_entries_deleted": lastDeleted.Load(),
			"last_run":             lastRunStr,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// Stop reads the PID file and sends SIGTERM to the running daemon.
func Stop() error {
	home := config.Get().Store.Home

	pid, err := ReadPID(home)
	if err != nil {
		return fmt.Errorf("nfrt-cache daemon does not appear to be running: %w", err)
	}

	if !isProcessAlive(pid) {
		if rmErr := RemovePID(home); rmErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove stale PID file: %v\n", rmErr)
		}
		return fmt.Errorf("nfrt-cache daemon is not running (stale PID file removed)")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending SIGTERM to process %d: %w", pid, err)
	}

	fmt.Printf("Sent SIGTERM to nfrt-cache daemon (PID %d)\n", pid)

	for i := 0; i < 30; i++ {
		time.Sleep(100 * time.Millisecond)
		if !isProcessAlive(pid) {
			return nil
		}
	}

	return nil
}

// Status checks if the daemon is running and prints a summary fetched from
// its status endpoint.
func Status() error {
	cfg := config.Get()

	if !IsRunning(cfg.Store.Home) {
		fmt.Println("nfrt-cache daemon is not running")
		return nil
	}

	pid, _ := ReadPID(cfg.Store.Home)
	fmt.Printf("nfrt-cache daemon is running (PID %d)\n", pid)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/status", cfg.Server.StatusAddr))
	if err != nil {
		fmt.Println("  (status endpoint unreachable)")
		return nil
	}
	defer resp.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}

	fmt.Printf("  Home:             %v\n", payload["home"])
	fmt.Printf("  Entries:          %v\n", payload["entries"])
	fmt.Printf("  Maintenance runs: %v\n", payload["maintenance_runs"])
	fmt.Printf("  Last run:         %v\n", payload["last_run"])

	return nil
}

// parseLogLevel converts a string log level to a zerolog.Level.
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
