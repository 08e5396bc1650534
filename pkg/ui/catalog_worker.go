package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/catalog"
	"github.com/testgen/tgv/pkg/logging"
	"github.com/testgen/tgv/pkg/model"
)

// WorkerState represents the current state of the catalog worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading the catalog.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "load" or "hash"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Consecutive failures including this one
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// Sender delivers messages to the UI loop; *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// CatalogLoader loads the current catalog.
type CatalogLoader func(ctx context.Context) ([]model.Node, error)

// CatalogLoadedMsg is sent to the UI when a changed catalog was loaded.
type CatalogLoadedMsg struct {
	Nodes []model.Node
	Hash  string
}

// CatalogErrorMsg is sent to the UI when loading fails.
type CatalogErrorMsg struct {
	Err *WorkerError
}

// WorkerConfig configures the CatalogWorker.
type WorkerConfig struct {
	// Path is watched for changes; empty disables watching
	Path          string
	Load          CatalogLoader
	DebounceDelay time.Duration
	Logger        *zap.Logger
}

// CatalogWorker reloads the catalog off the UI thread whenever its file
// changes and hands the result to the UI as a message. Identical content is
// skipped by hash.
type CatalogWorker struct {
	load   CatalogLoader
	logger *zap.Logger

	mu         sync.Mutex
	state      WorkerState
	dirty      bool // A change came in while processing
	lastHash   string
	lastError  *WorkerError
	errorCount int
	sender     Sender

	watcher *catalog.Watcher
}

// NewCatalogWorker creates a catalog worker.
func NewCatalogWorker(cfg WorkerConfig) (*CatalogWorker, error) {
	if cfg.Load == nil {
		return nil, fmt.Errorf("catalog worker needs a loader")
	}
	logger := logging.OrNop(cfg.Logger)

	w := &CatalogWorker{
		load:   cfg.Load,
		logger: logger,
		state:  WorkerIdle,
	}

	if cfg.Path != "" {
		fw, err := catalog.NewWatcher(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		if cfg.DebounceDelay > 0 {
			fw.SetDebounce(cfg.DebounceDelay)
		}
		w.watcher = fw
	}
	return w, nil
}

// SetSender attaches the UI program. Messages produced before a sender is
// attached are dropped.
func (w *CatalogWorker) SetSender(s Sender) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sender = s
}

// Run watches for changes until ctx is cancelled. Without a watched path it
// simply waits for cancellation.
func (w *CatalogWorker) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		w.state = WorkerStopped
		w.mu.Unlock()
	}()

	if w.watcher == nil {
		<-ctx.Done()
		return nil
	}
	return w.watcher.Run(ctx, func() { w.Process(ctx) })
}

// TriggerRefresh reloads in the background, e.g. on a manual reload key.
func (w *CatalogWorker) TriggerRefresh(ctx context.Context) {
	go w.Process(ctx)
}

// State returns the current worker state.
func (w *CatalogWorker) State() WorkerState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastError returns the most recent error (nil if last load succeeded).
func (w *CatalogWorker) LastError() *WorkerError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastError
}

// LastHash returns the content hash of the last delivered catalog.
func (w *CatalogWorker) LastHash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastHash
}

// SetLastHash records the hash of a catalog loaded elsewhere (the initial
// load) so an unchanged first event is skipped.
func (w *CatalogWorker) SetLastHash(hash string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastHash = hash
}

// Process loads the catalog once and notifies the UI if it changed. Calls
// that arrive while a load is running are coalesced into one more load.
func (w *CatalogWorker) Process(ctx context.Context) {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	msg := w.buildMessage(ctx)

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerIdle
	wasDirty := w.dirty
	sender := w.sender
	w.mu.Unlock()

	if sender != nil && msg != nil {
		sender.Send(msg)
	}
	if wasDirty {
		w.Process(ctx)
	}
}

// buildMessage loads the catalog and returns the message for the UI, or nil
// when the content is unchanged.
func (w *CatalogWorker) buildMessage(ctx context.Context) tea.Msg {
	start := time.Now()

	var nodes []model.Node
	if werr := w.safeCompute("load", func() error {
		var err error
		nodes, err = w.load(ctx)
		return err
	}); werr != nil {
		w.recordError(werr)
		w.logger.Warn("catalog reload failed", zap.Error(werr))
		return CatalogErrorMsg{Err: werr}
	}

	var hash string
	if werr := w.safeCompute("hash", func() error {
		var err error
		hash, err = HashNodes(nodes)
		return err
	}); werr != nil {
		w.recordError(werr)
		w.logger.Warn("catalog hash failed", zap.Error(werr))
		return CatalogErrorMsg{Err: werr}
	}
	w.recordError(nil)

	w.mu.Lock()
	unchanged := hash == w.lastHash && w.lastHash != ""
	w.lastHash = hash
	w.mu.Unlock()

	if unchanged {
		w.logger.Debug("catalog unchanged, skipping reload", zap.String("hash", hashPrefix(hash)))
		return nil
	}

	w.logger.Info("catalog reloaded",
		zap.Int("nodes", model.CountNodes(nodes)),
		zap.Duration("took", time.Since(start)),
		zap.String("hash", hashPrefix(hash)))
	return CatalogLoadedMsg{Nodes: nodes, Hash: hash}
}

// safeCompute executes fn and recovers from any panics.
func (w *CatalogWorker) safeCompute(phase string, fn func() error) (result *WorkerError) {
	defer func() {
		if r := recover(); r != nil {
			result = &WorkerError{
				Phase: phase,
				Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
				Time:  time.Now(),
			}
		}
	}()
	if err := fn(); err != nil {
		return &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
	}
	return nil
}

// recordError tracks an error and updates error state.
func (w *CatalogWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
}

// HashNodes returns a content hash of a node forest.
func HashNodes(nodes []model.Node) (string, error) {
	data, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("encoding nodes: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// hashPrefix returns a safe prefix of the hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
