package cmd

import (
	"github.com/csnewman/craftlauncher/classpath"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/csnewman/craftlauncher/launch"
	"github.com/csnewman/craftlauncher/metrics"
	"github.com/csnewman/craftlauncher/repository"
	"github.com/csnewman/craftlauncher/update"
	"github.com/csnewman/craftlauncher/util/di"
	"go.uber.org/zap"
	"path/filepath"
)

func newContainer(log *zap.SugaredLogger, dataDir string) (*di.Container, error) {
	return di.New(
		di.Value(log),
		di.Provider(func(log *zap.SugaredLogger) (*config.Store, error) {
			return config.Open(log, config.ConfigFile(dataDir))
		}),
		di.Provider(func(store *config.Store) config.Config {
			return store.Get()
		}),
		di.Provider(func(cfg config.Config) (*config.Profile, error) {
			path := cfg.Profile
			if path == "" {
				path = filepath.Join(dataDir, "profile.yaml")
			}
			return config.LoadProfile(path)
		}),
		di.Provider(func(cfg config.Config) config.Paths {
			return config.NewPaths(dataDir, cfg)
		}),
		di.Provider(metrics.NewPrometheusCollector),
		di.Provider(func(pc *metrics.PrometheusCollector) metrics.Collector {
			return pc
		}),
		di.Provider(integrity.NewEngine),
		di.Provider(func(log *zap.SugaredLogger, collector metrics.Collector) *repository.Client {
			return repository.NewClient(log, nil, collector)
		}),
		di.Provider(update.NewCoordinator),
		di.Provider(func(log *zap.SugaredLogger, profile *config.Profile, paths config.Paths) *classpath.Resolver {
			r := classpath.NewResolver(log, paths.IndirectionArchive())
			r.MaxLength = profile.MaxClasspathLength
			r.Mandatory = profile.MandatoryLibraries
			r.Helpers = profile.HelperLibraries
			r.ReducedLimit = profile.ReducedLimit
			return r
		}),
		di.Provider(launch.NewLocator),
		di.Provider(func(log *zap.SugaredLogger, profile *config.Profile, paths config.Paths, collector metrics.Collector) *launch.Orchestrator {
			o := launch.NewOrchestrator(log, launch.NewExecStarter(log), launch.NewSubstringClassifier(), launch.DefaultStrategies(profile.Windows), collector)
			o.PreviewLength = profile.PreviewLength
			o.ReportDir = paths.LogDir()
			return o
		}),
		di.Provider(launch.NewLauncher),
	)
}
