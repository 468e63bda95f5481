package update

import (
	"context"
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/csnewman/craftlauncher/metrics"
	"github.com/csnewman/craftlauncher/repository"
	"go.uber.org/zap"
	"os"
	"path/filepath"
)

// UpdateFailed wraps the cause of an aborted update. The cached manifest is left untouched.
type UpdateFailed struct {
	Cause error
}

func (e *UpdateFailed) Error() string {
	return fmt.Sprintf("update failed: %v", e.Cause)
}

func (e *UpdateFailed) Unwrap() error {
	return e.Cause
}

var ErrNoPayload = errors.New("manifest has no payload archive")

// Coordinator brings the installation in line with the remote manifest.
type Coordinator struct {
	log     *zap.SugaredLogger
	client  *repository.Client
	engine  *integrity.Engine
	cfg     config.Config
	paths   config.Paths
	folders []string
	metrics metrics.Collector
}

func NewCoordinator(
	log *zap.SugaredLogger,
	client *repository.Client,
	engine *integrity.Engine,
	cfg config.Config,
	profile *config.Profile,
	paths config.Paths,
	collector metrics.Collector,
) *Coordinator {
	return &Coordinator{
		log:     log,
		client:  client,
		engine:  engine,
		cfg:     cfg,
		paths:   paths,
		folders: profile.ContentFolders,
		metrics: collector,
	}
}

func (c *Coordinator) loadLocal() *repository.Manifest {
	local, err := repository.LoadCache(c.paths.ManifestCache())
	if err != nil {
		c.log.Warnw("Ignoring unreadable local manifest", "path", c.paths.ManifestCache(), "error", err)
		return nil
	}
	return local
}

// Installed returns the cached manifest, or nil if nothing was installed yet.
func (c *Coordinator) Installed() *repository.Manifest {
	return c.loadLocal()
}

// CheckForUpdate reports whether Update would change the installation.
func (c *Coordinator) CheckForUpdate(ctx context.Context) (bool, error) {
	remote, err := c.client.GetManifestOrExample(ctx, c.cfg.ManifestURL)
	if err != nil {
		return false, err
	}

	local := c.loadLocal()
	if local == nil {
		c.log.Infow("No local version installed", "remote", remote.Version)
		return true, nil
	}

	if local.Version != remote.Version {
		c.log.Infow("New version available", "change", Describe(local.Version, remote.Version))
		return true, nil
	}

	if remote.IsExample() {
		return false, nil
	}

	stale := c.staleEntries(remote, local)
	if len(stale) > 0 {
		c.log.Infow("Local files out of date", "count", len(stale))
		return true, nil
	}

	return false, nil
}

// staleEntries lists remote entries the installation does not match. Content entries are compared
// with the game dir; payload entries with the cached manifest, since they are removed once applied.
func (c *Coordinator) staleEntries(remote *repository.Manifest, local *repository.Manifest) []repository.File {
	var stale []repository.File

	for _, f := range remote.Files {
		if f.IsPayload() {
			if local == nil {
				stale = append(stale, f)
				continue
			}

			if lf, ok := local.Lookup(f.Path); !ok || !integrity.Equal(lf.Hash, f.Hash) {
				stale = append(stale, f)
			}
			continue
		}

		sum, err := integrity.Digest(filepath.Join(c.paths.GameDir, filepath.FromSlash(f.Path)))
		if err != nil || !integrity.Equal(sum, f.Hash) {
			stale = append(stale, f)
		}
	}

	return stale
}

// Update downloads and applies the remote version. The manifest is persisted only after every
// step succeeded.
func (c *Coordinator) Update(ctx context.Context, progress integrity.Progress) error {
	if progress == nil {
		progress = integrity.NopProgress
	}

	err := c.update(ctx, progress)
	if err != nil {
		c.metrics.UpdateResult("failed")
		c.log.Errorw("Update failed", "error", err)

		var uf *UpdateFailed
		if !errors.As(err, &uf) {
			err = &UpdateFailed{Cause: err}
		}
	}
	return err
}

func (c *Coordinator) update(ctx context.Context, progress integrity.Progress) error {
	progress(0, "Checking for updates")

	remote, err := c.client.GetManifestOrExample(ctx, c.cfg.ManifestURL)
	if err != nil {
		return err
	}

	if remote.IsExample() {
		return c.demonstrate(ctx, remote, progress)
	}

	local := c.loadLocal()
	stale := c.staleEntries(remote, local)
	versionChanged := local == nil || local.Version != remote.Version

	if len(stale) == 0 {
		if versionChanged {
			if err := repository.SaveCache(c.paths.ManifestCache(), remote); err != nil {
				return err
			}
		}

		progress(100, "Already up to date")
		c.metrics.UpdateResult("current")
		return nil
	}

	payload, ok := pickPayload(stale)
	if !ok {
		payload, ok = remote.Payload()
	}
	if !ok {
		return ErrNoPayload
	}

	c.log.Infow("Updating", "change", Describe(versionOf(local), remote.Version), "stale", len(stale), "payload", payload.Path)

	progress(10, "Downloading "+repository.Describe(payload))

	archive := filepath.Join(c.paths.DownloadDir(), filepath.FromSlash(payload.Path))
	err = c.client.Download(ctx, payload.Url, archive, payload.Hash, func(done int64, total int64) {
		if total > 0 {
			progress(10+int(40*done/total), "Downloading "+repository.Describe(payload))
		}
	})
	if err != nil {
		return err
	}

	progress(50, "Extracting "+payload.Path)

	n, err := Extract(ctx, archive, c.paths.GameDir, func(count int, name string) {
		progress(50, "Extracted "+name)
	})
	if err != nil {
		return fmt.Errorf("extract %s: %w", payload.Path, err)
	}

	c.log.Infow("Payload extracted", "files", n)

	if err := os.Remove(archive); err != nil {
		c.log.Warnw("Could not remove payload", "path", archive, "error", err)
	}

	if err := c.syncContent(ctx, 80, 95, progress); err != nil {
		return err
	}

	for _, f := range c.staleEntries(remote, nil) {
		if !f.IsPayload() {
			c.log.Warnw("File still differs from manifest after update", "path", f.Path)
		}
	}

	progress(95, "Saving version")

	if err := repository.SaveCache(c.paths.ManifestCache(), remote); err != nil {
		return err
	}

	progress(100, "Update complete")
	c.metrics.UpdateResult("updated")
	c.log.Infow("Update complete", "version", remote.Version)

	return nil
}

// demonstrate handles the offline example manifest: no download, content is synced from the reference tree only.
func (c *Coordinator) demonstrate(ctx context.Context, remote *repository.Manifest, progress integrity.Progress) error {
	c.log.Warn("Content server unavailable, applying local content only")

	progress(10, "Content server unavailable, syncing local content")

	if err := c.syncContent(ctx, 10, 90, progress); err != nil {
		return err
	}

	if err := repository.SaveCache(c.paths.ManifestCache(), remote); err != nil {
		return err
	}

	progress(100, "Local configuration complete")
	c.metrics.UpdateResult("demo")

	return nil
}

// syncContent repairs the content folders from the reference tree, mapping progress into [from, to].
func (c *Coordinator) syncContent(ctx context.Context, from int, to int, progress integrity.Progress) error {
	progress(from, "Verifying content")

	if c.paths.SourceDir == "" {
		c.log.Debug("No reference tree configured, skipping content repair")
		return nil
	}

	report, err := c.engine.Verify(ctx, c.paths.SourceDir, c.paths.GameDir, c.folders)
	if err != nil {
		return err
	}

	_, err = c.engine.Repair(ctx, report, c.paths.SourceDir, c.paths.GameDir, func(percent int, message string) {
		progress(from+(to-from)*percent/100, message)
	})
	return err
}

func pickPayload(files []repository.File) (repository.File, bool) {
	for _, f := range files {
		if f.IsPayload() {
			return f, true
		}
	}
	return repository.File{}, false
}

func versionOf(m *repository.Manifest) string {
	if m == nil {
		return ""
	}
	return m.Version
}
