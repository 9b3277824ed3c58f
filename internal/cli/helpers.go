package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/imkarma/tasktrack/internal/config"
	"github.com/imkarma/tasktrack/internal/offline"
	"github.com/imkarma/tasktrack/internal/storage"
	"github.com/imkarma/tasktrack/internal/store"
)

const trackDirName = ".tasktrack"

// trackPath returns the path to a file inside .tasktrack/.
func trackPath(parts ...string) string {
	elems := append([]string{trackDirName}, parts...)
	return filepath.Join(elems...)
}

// env is the composition root: storage, sync queue and store wired
// together with explicit dependencies.
type env struct {
	cfg   *config.Config
	kv    *storage.KV
	queue *offline.Queue
	store *store.Store
}

// openEnv opens the project in the current directory, returning an
// error if tasktrack is not initialized.
func openEnv() (*env, error) {
	dbPath := trackPath("tasktrack.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("tasktrack not initialized. Run: tasktrack init")
	}

	cfg, err := config.Load(trackPath("config.yaml"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}

	kv, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	qcfg := offline.DefaultConfig()
	qcfg.MaxAttempts = cfg.Sync.EffectiveMaxAttempts()
	qcfg.RetryDelay = cfg.Sync.EffectiveRetryDelay()
	qcfg.Online = func() bool { return probeOnline(context.Background(), cfg.Sync.ProbeAddr) }
	queue := offline.NewQueue(kv, dispatcher(cfg), qcfg)

	st := store.Open(kv, store.WithQueue(queue))

	return &env{cfg: cfg, kv: kv, queue: queue, store: st}, nil
}

func (e *env) Close() {
	e.kv.Close()
}

// probeOnline checks connectivity with a short TCP dial. An empty
// probe address means always online (useful in air-gapped setups where
// the queue is drained manually).
func probeOnline(ctx context.Context, addr string) bool {
	if addr == "" {
		return true
	}
	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
