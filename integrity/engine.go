package integrity

import (
	"context"
	"fmt"
	"github.com/csnewman/craftlauncher/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// Progress receives a completion percentage in [0, 100] and a short message.
type Progress func(percent int, message string)

func NopProgress(int, string) {}

// Engine compares content folders of a target tree against a reference tree and restores them.
type Engine struct {
	log         *zap.SugaredLogger
	metrics     metrics.Collector
	parallelism int
}

func NewEngine(log *zap.SugaredLogger, collector metrics.Collector) *Engine {
	return &Engine{
		log:         log,
		metrics:     collector,
		parallelism: runtime.NumCPU(),
	}
}

// Verify classifies every file under source/<folder> as correct, missing or corrupted in target/<folder>.
//
// A missing source folder yields an empty folder report. A missing target folder is created.
func (e *Engine) Verify(ctx context.Context, source string, target string, folders []string) (*Report, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, ioErr("stat", source, err)
	}

	report := newReport()

	for _, folder := range folders {
		fr, err := e.verifyFolder(ctx, filepath.Join(source, folder), filepath.Join(target, folder))
		if err != nil {
			return nil, err
		}

		e.log.Debugw("Verified folder", "folder", folder, "correct", len(fr.Correct), "missing", len(fr.Missing), "corrupted", len(fr.Corrupted))

		report.Order = append(report.Order, folder)
		report.Folders[folder] = fr
	}

	e.log.Infow("Verification complete", "result", report.Summary())

	return report, nil
}

func (e *Engine) verifyFolder(ctx context.Context, src string, dst string) (*FolderReport, error) {
	fr := &FolderReport{}

	ok, err := exists(src)
	if err != nil {
		return nil, ioErr("stat", src, err)
	}
	if !ok {
		e.log.Warnw("Reference folder not found", "path", src)
		return fr, nil
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, ioErr("mkdir", dst, err)
	}

	files, err := listFiles(src)
	if err != nil {
		return nil, ioErr("walk", src, err)
	}

	statuses := make([]Status, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			s, err := compare(filepath.Join(src, filepath.FromSlash(rel)), filepath.Join(dst, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}

			statuses[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, rel := range files {
		fr.add(rel, statuses[i])
	}

	return fr, nil
}

func compare(src string, dst string) (Status, error) {
	ok, err := exists(dst)
	if err != nil {
		return 0, ioErr("stat", dst, err)
	}
	if !ok {
		return StatusMissing, nil
	}

	want, err := Digest(src)
	if err != nil {
		return 0, err
	}

	got, err := Digest(dst)
	if err != nil {
		// An unreadable target file is replaced like a corrupted one
		return StatusCorrupted, nil
	}

	if !Equal(want, got) {
		return StatusCorrupted, nil
	}

	return StatusCorrect, nil
}

// Repair copies every missing then every corrupted entry from source into target.
//
// It stops at the first failing copy and returns false with a *RepairError. Files copied before
// the failure stay in place. Repaired entries are moved to Correct in the report, so repeating
// the call with the same report finishes immediately.
func (e *Engine) Repair(ctx context.Context, report *Report, source string, target string, progress Progress) (bool, error) {
	if progress == nil {
		progress = NopProgress
	}

	total := report.Pending()
	if total == 0 {
		progress(100, "Nothing to repair")
		return true, nil
	}

	done := 0
	for _, folder := range report.Order {
		fr := report.Folders[folder]
		pending := append(slices.Clone(fr.Missing), fr.Corrupted...)
		repaired := 0

		for _, rel := range pending {
			if err := ctx.Err(); err != nil {
				return false, &RepairError{Done: done, Total: total, Path: folder + "/" + rel, Err: err}
			}

			src := filepath.Join(source, folder, filepath.FromSlash(rel))
			dst := filepath.Join(target, folder, filepath.FromSlash(rel))

			if err := copyFile(src, dst); err != nil {
				e.log.Errorw("Repair failed", "folder", folder, "path", rel, "error", err)
				e.metrics.FilesRepaired(folder, repaired)
				return false, &RepairError{Done: done, Total: total, Path: folder + "/" + rel, Err: err}
			}

			fr.markCorrect(rel)
			done++
			repaired++
			progress(done*100/total, fmt.Sprintf("Repaired %s/%s", folder, rel))
		}

		if repaired > 0 {
			e.log.Infow("Repaired folder", "folder", folder, "files", repaired)
			e.metrics.FilesRepaired(folder, repaired)
		}
	}

	return true, nil
}

// ForceResync replaces each target folder with a full copy of its reference folder.
func (e *Engine) ForceResync(ctx context.Context, source string, target string, folders []string, progress Progress) (bool, error) {
	if progress == nil {
		progress = NopProgress
	}

	for i, folder := range folders {
		if err := ctx.Err(); err != nil {
			return false, &RepairError{Done: i, Total: len(folders), Path: folder, Err: err}
		}

		progress(i*100/len(folders), "Resyncing "+folder)

		src := filepath.Join(source, folder)
		dst := filepath.Join(target, folder)

		ok, err := exists(src)
		if err != nil {
			return false, &RepairError{Done: i, Total: len(folders), Path: folder, Err: ioErr("stat", src, err)}
		}
		if !ok {
			e.log.Warnw("Reference folder not found, skipping", "path", src)
			continue
		}

		if err := os.RemoveAll(dst); err != nil {
			return false, &RepairError{Done: i, Total: len(folders), Path: folder, Err: ioErr("remove", dst, err)}
		}

		count, err := copyTree(src, dst)
		if err != nil {
			return false, &RepairError{Done: i, Total: len(folders), Path: folder, Err: err}
		}

		e.log.Infow("Resynced folder", "folder", folder, "files", count)
		e.metrics.FilesRepaired(folder, count)
	}

	progress(100, "Resync complete")
	return true, nil
}

// FolderStatus counts the regular files present in each target folder.
func FolderStatus(target string, folders []string) (map[string]int, error) {
	out := map[string]int{}
	for _, folder := range folders {
		dir := filepath.Join(target, folder)

		ok, err := exists(dir)
		if err != nil {
			return nil, ioErr("stat", dir, err)
		}
		if !ok {
			out[folder] = 0
			continue
		}

		files, err := listFiles(dir)
		if err != nil {
			return nil, ioErr("walk", dir, err)
		}
		out[folder] = len(files)
	}
	return out, nil
}
