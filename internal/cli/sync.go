package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imkarma/tasktrack/internal/config"
	"github.com/imkarma/tasktrack/internal/offline"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Inspect or run the offline sync queue",
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending sync intents and the last sync time",
	RunE:  runSyncStatus,
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Drain the sync queue once",
	RunE:  runSyncRun,
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the connectivity monitor until interrupted",
	Long: `Watches connectivity and drains the sync queue on every
offline-to-online transition, plus periodically while online.
Runs in the foreground; stop it with Ctrl-C.`,
	RunE: runSyncWatch,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRunCmd)
	syncCmd.AddCommand(syncWatchCmd)
}

// dispatcher builds the DispatchFunc for the configured endpoint. With
// no endpoint configured, intents are logged and acknowledged locally.
func dispatcher(cfg *config.Config) offline.DispatchFunc {
	endpoint := cfg.Sync.Endpoint
	if endpoint == "" {
		logger := log.New(os.Stderr, "[sync] ", log.LstdFlags)
		return func(ctx context.Context, intent offline.Intent) error {
			logger.Printf("no endpoint configured, acknowledging %s %s locally", intent.Action, intent.ID)
			return nil
		}
	}

	client := &http.Client{Timeout: 10 * time.Second}
	return func(ctx context.Context, intent offline.Intent) error {
		url := endpoint + "/" + intent.Action
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(intent.Payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("remote returned %s", resp.Status)
		}
		return nil
	}
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	last := "never"
	if t := e.queue.LastSync(); !t.IsZero() {
		last = t.Format("2006-01-02 15:04:05")
	}
	fmt.Printf("Last sync: %s\n", last)

	online := probeOnline(context.Background(), e.cfg.Sync.ProbeAddr)
	state := colorGreen + "online" + colorReset
	if !online {
		state = colorRed + "offline" + colorReset
	}
	fmt.Printf("Connectivity: %s\n", state)

	items := e.queue.Items()
	fmt.Printf("Pending intents: %d\n", len(items))
	for _, it := range items {
		attempts := ""
		if it.Attempts > 0 {
			attempts = fmt.Sprintf("  %s(%d failed attempts)%s", colorRed, it.Attempts, colorReset)
		}
		fmt.Printf("  %s%s%s  %-18s %s%s%s%s\n",
			colorYellow, shortID(it.ID), colorReset,
			it.Action,
			colorDim, it.EnqueuedAt.Format("2006-01-02 15:04"), colorReset,
			attempts)
	}
	return nil
}

func runSyncRun(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	before := e.queue.Len()
	if before == 0 {
		fmt.Println("Sync queue is empty.")
		return nil
	}
	if !probeOnline(context.Background(), e.cfg.Sync.ProbeAddr) {
		return fmt.Errorf("offline, not draining (%d intents pending)", before)
	}

	fmt.Printf("Draining %d intents...\n", before)
	e.queue.Drain(cmd.Context())
	fmt.Printf("Done. %d intents remain.\n", e.queue.Len())
	return nil
}

func runSyncWatch(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var out io.Writer = os.Stderr
	if e.cfg.Sync.WatchLogFile != "" {
		out = &lumberjack.Logger{
			Filename:   e.cfg.Sync.WatchLogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	mcfg := &offline.MonitorConfig{
		Interval:     e.cfg.Sync.EffectiveInterval(),
		PollInterval: e.cfg.Sync.EffectivePoll(),
		Logger:       log.New(out, "[monitor] ", log.LstdFlags),
	}
	probe := func(ctx context.Context) bool {
		return probeOnline(ctx, e.cfg.Sync.ProbeAddr)
	}
	mon := offline.NewMonitor(e.queue, probe, mcfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching connectivity (drain every %s, poll every %s). Ctrl-C to stop.\n",
		mcfg.Interval, mcfg.PollInterval)
	if err := mon.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Println("\nStopped.")
	return nil
}
