package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/othala/internal/reconcile"
	"github.com/starford/othala/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// WatchOptions configures Watch.
type WatchOptions struct {
	VaultRoot string
	SkipDirs  []string
	// Runner, when set, reconciles a note's frontmatter before it is
	// indexed. The write this may cause echoes back as one more event;
	// the second pass finds nothing to change, so the loop settles.
	Runner *reconcile.Runner
	DryRun bool
}

// Watch starts an fsnotify watcher on the vault root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a resync pass that removes stale index
// entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, opts WatchOptions, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	skip := make(map[string]struct{}, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		if d != "" {
			skip[d] = struct{}{}
		}
	}

	if err := addDirsRecursive(w, opts.VaultRoot, skip); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", opts.VaultRoot))

	align := func(rel string) {
		if opts.Runner == nil {
			return
		}
		if _, err := opts.Runner.ProcessFile(rel, opts.DryRun); err != nil {
			logger.Warn("watcher: reconcile failed", slog.String("path", rel), slog.String("error", err.Error()))
		}
	}

	// resyncTimer debounces the post-rename resync.
	var resyncTimer *time.Timer
	var resyncCh <-chan time.Time

	scheduleResync := func() {
		if resyncTimer == nil {
			resyncTimer = time.NewTimer(200 * time.Millisecond)
			resyncCh = resyncTimer.C
		} else {
			resyncTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if resyncTimer != nil {
				resyncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-resyncCh:
			resyncAfterRename(db, store, align, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// --- Handle new directories: add to watcher ---
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if skipName(filepath.Base(absPath), skip) {
						continue
					}
					if addErr := addDirsRecursive(w, absPath, skip); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					// Index any .md files already in the new directory.
					indexNewDir(db, store, opts.VaultRoot, absPath, align, logger, cb)
					continue
				}
			}

			// Only process .md files from here on.
			if !strings.HasSuffix(absPath, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(opts.VaultRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				align(rel)
				data, readErr := store.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := IndexFile(db, rel, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
				if cb != nil {
					cb(kind, rel)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteNote(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				if cb != nil {
					cb("deleted", rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path will arrive as a separate Create event (if it
				// stays within a watched dir). We delete the old entry
				// immediately and schedule a short resync pass to catch
				// any stragglers.
				if delErr := db.DeleteNote(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", rel))
					if cb != nil {
						cb("deleted", rel)
					}
				}
				scheduleResync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// resyncAfterRename does a lightweight sync using batch lookups:
// finds index entries without a corresponding file on disk and removes them,
// and finds on-disk files that are not indexed and indexes them. Files that
// moved get their frontmatter realigned to the new position first.
func resyncAfterRename(db *DB, store storage.Provider, align func(string), logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("resync: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List("")
	if err != nil {
		logger.Warn("resync: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if delErr := db.DeleteNote(p); delErr == nil {
				logger.Debug("resync: removed stale", slog.String("path", p))
				if cb != nil {
					cb("deleted", p)
				}
			}
		}
	}

	for p, cs := range disk {
		if checksums[p] == cs {
			continue
		}
		align(p)
		data, readErr := store.Read(p)
		if readErr != nil {
			continue
		}
		if idxErr := IndexFile(db, p, data); idxErr == nil {
			logger.Debug("resync: indexed new", slog.String("path", p))
			if cb != nil {
				cb("created", p)
			}
		}
	}
}

// indexNewDir indexes any .md files found in a newly created directory.
func indexNewDir(db *DB, store storage.Provider, vaultRoot, dirPath string, align func(string), logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(vaultRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		align(rel)
		data, readErr := store.Read(rel)
		if readErr != nil {
			return nil
		}
		if idxErr := IndexFile(db, rel, data); idxErr == nil {
			logger.Debug("watcher: indexed from new dir", slog.String("path", rel))
			if cb != nil {
				cb("created", rel)
			}
		}
		return nil
	})
}

// skipName reports whether a folder name is excluded from watching. Hidden
// folders are always excluded, matching the storage walk.
func skipName(name string, skip map[string]struct{}) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := skip[name]
	return ok
}

// addDirsRecursive adds root and all its subdirectories to the watcher,
// leaving skipped folders unwatched.
func addDirsRecursive(w *fsnotify.Watcher, root string, skip map[string]struct{}) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipName(d.Name(), skip) {
			return fs.SkipDir
		}
		return w.Add(path)
	})
}
