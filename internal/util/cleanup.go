package util

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

// ShutdownContext is cancelled on the first SIGINT or SIGTERM. A second
// signal exits the process immediately.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sig:
			fmt.Println("\nInterrupt received. Shutting down...")
			cancel()
		case <-ctx.Done():
			signal.Stop(sig)
			return
		}

		<-sig
		fmt.Println("\nExiting due to second interrupt.")
		os.Exit(1)
	}()

	return ctx, cancel
}

// RemoveStoreFiles deletes a file-backed store together with the SQLite
// journal files next to it, then drops the directory if nothing else is left
// in it.
func RemoveStoreFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}

	RemoveIfEmpty(filepath.Dir(path))
	return nil
}

func RemoveIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if len(entries) == 0 {
		_ = os.Remove(dir)
	}
}
