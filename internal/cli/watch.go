package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/logger"
)

var watchAnalyze bool

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a directory and auto-upload new datasets",
		Long: `Monitor a directory for new race datasets and upload them to the
backend as they appear.

Uses file system notifications to pick up newly created files matching the
configured extensions (.csv and .json by default). Press Ctrl+C to stop.

Examples:
  pitwall watch ./exports
  pitwall watch --analyze ./exports`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchAnalyze, "analyze", false, "analyze each file after uploading")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if err := validateWatchDir(dir); err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	log := GetLogger("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer cleanupWatcher(watcher, log)

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	log.Info("watching directory %s, press Ctrl+C to stop", dir)

	return runWatchLoop(watcher, client, log)
}

// runWatchLoop runs the main watch loop with signal handling
func runWatchLoop(watcher *fsnotify.Watcher, client *api.Client, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	autoAnalyze := watchAnalyze || GetGlobalConfig().Watch.AutoAnalyze

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			log.Info("received interrupt signal, stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if err := handleWatchEvent(ctx, event, client, autoAnalyze, log); err != nil {
				log.Error("handling %s failed: %v", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.InfoWithFields("watcher error", []logger.Field{logger.Err(err)})
		}
	}
}

// handleWatchEvent uploads newly created files that match the configured
// extensions.
func handleWatchEvent(ctx context.Context, event fsnotify.Event, client *api.Client, autoAnalyze bool, log *logger.Logger) error {
	if event.Op&fsnotify.Create != fsnotify.Create {
		return nil
	}
	if !shouldUpload(event.Name, GetGlobalConfig().Watch.Extensions) {
		log.Debug("skipping %s", event.Name)
		return nil
	}

	receipt, err := uploadWatchedFile(ctx, client, event.Name, log.WithComponent("watch.upload"))
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s (id %d)\n", receipt.Filename, receipt.FileID)

	if !autoAnalyze {
		return nil
	}

	analysis, err := client.Analyze(ctx, receipt.FileID)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}
	printAnalysis(analysis)
	return nil
}

func uploadWatchedFile(ctx context.Context, client *api.Client, path string, log *logger.Logger) (*api.UploadReceipt, error) {
	// #nosec G304 - path comes from the watched directory
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer cleanupFile(f, log)

	receipt, err := client.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	log.InfoWithFields("upload complete", []logger.Field{
		logger.F("file", receipt.Filename),
		logger.F("id", receipt.FileID),
	})
	return receipt, nil
}

// shouldUpload reports whether the file name matches one of the watched
// extensions. Hidden files are always skipped.
func shouldUpload(name string, extensions []string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(base))
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// validateWatchDir validates that a path is a watchable directory
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target must be a directory")
	}

	return nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Warn("failed to close watcher: %v", err)
	}
}

// cleanupFile safely closes file with error logging
func cleanupFile(file *os.File, log *logger.Logger) {
	if err := file.Close(); err != nil {
		log.Warn("failed to close file: %v", err)
	}
}
