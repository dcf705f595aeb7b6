package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/logger"
)

// defaultDebounce coalesces the burst of events editors emit on save.
const defaultDebounce = 500 * time.Millisecond

var (
	watchDebounce time.Duration
	watchInitial  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [chatbot-id] [file]",
	Short: "Retrain a chatbot whenever its file changes",
	Long: `Watches a document and retrains the chatbot each time the file is written
or replaced. Runs until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", defaultDebounce, "quiet period before retraining")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "train once before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if trainingService == nil {
		return errTrainingServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}
	if watchDebounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", domain.ErrInvalidInput)
	}

	path, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[1], err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, domain.ErrNotFound)
	}

	retrain := func(ctx context.Context) {
		result, err := trainingService.Train(ctx, domain.TrainRequest{Key: key, File: path})
		if err != nil {
			logger.Error("retraining chatbot %s failed: %v", key, err)
			cmd.PrintErrf("Training failed: %v\n", err)
			return
		}
		printTrainResult(cmd, key, result)
	}

	ctx := cmd.Context()
	if watchInitial {
		retrain(ctx)
	}

	cmd.Printf("Watching %s (ctrl+c to stop)\n", path)
	return watchFile(ctx, path, watchDebounce, retrain)
}

// watchFile calls fn after path is written or replaced and then stays quiet
// for debounce. It watches the parent directory so editors that save by
// rename are still seen. Returns nil when ctx is cancelled.
func watchFile(ctx context.Context, path string, debounce time.Duration, fn func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	// Stopped until the first event. Stop guarantees no stale tick is
	// delivered afterwards, so the channel needs no draining.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRetrainEvent(event, path) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timer.C:
			fn(ctx)
		}
	}
}

// isRetrainEvent reports whether event changes the content of path.
func isRetrainEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
