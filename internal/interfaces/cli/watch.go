package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

var watchDir string

// NewWatchCmd creates the `watch` command: monitor a directory for
// contract text file changes and re-run analyze on each settled
// change, debounced per internal/config's WatchConfig.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory for contract files and analyze them on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd)
		},
	}
	cmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default: config watch.dir)")
	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	dir := watchDir
	if dir == "" {
		dir = cliCtx.Config.Watch.Dir
	}
	if dir == "" {
		return errors.New(errors.CodeInvalidParam, "watch: no directory configured (use --dir or watch.dir)")
	}
	pattern := cliCtx.Config.Watch.Pattern
	if pattern == "" {
		pattern = "*.txt"
	}
	debounce := cliCtx.Config.Watch.DebounceWindow
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "watch: failed to create fsnotify watcher")
	}
	defer watcher.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "watch: failed to ensure watch directory")
	}
	if err := watcher.Add(dir); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "watch: failed to watch directory")
	}

	cliCtx.Logger.Info("watching for contract changes",
		logging.String("dir", dir), logging.String("pattern", pattern))

	w := &fileWatcher{
		cmd:      cmd,
		cliCtx:   cliCtx,
		pattern:  pattern,
		debounce: debounce,
		pending:  make(map[string]time.Time),
	}
	return w.run(cmd.Context(), watcher)
}

type fileWatcher struct {
	cmd      *cobra.Command
	cliCtx   *CLIContext
	pattern  string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

func (w *fileWatcher) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.cliCtx.Logger.Warn("watch error", logging.Err(err))
		case <-ticker.C:
			w.processSettled()
		}
	}
}

func (w *fileWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	matched, err := filepath.Match(w.pattern, filepath.Base(event.Name))
	if err != nil || !matched {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *fileWatcher) processSettled() {
	now := time.Now()
	var settled []string

	w.mu.Lock()
	for path, seenAt := range w.pending {
		if now.Sub(seenAt) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.analyzeChangedFile(path)
	}
}

func (w *fileWatcher) analyzeChangedFile(path string) {
	if _, err := os.Stat(path); err != nil {
		w.cliCtx.Logger.Debug("watch: skipping removed file", logging.String("path", path))
		return
	}

	w.cliCtx.Logger.Info("watch: analyzing changed file", logging.String("path", path))

	prevPath := analyzeInputPath
	analyzeInputPath = path
	defer func() { analyzeInputPath = prevPath }()

	if err := runAnalyze(w.cmd); err != nil {
		w.cliCtx.Logger.Warn("watch: analysis failed", logging.String("path", path), logging.Err(err))
	}
}
