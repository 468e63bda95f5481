package launch

import (
	"context"
	"github.com/csnewman/craftlauncher/classpath"
	"github.com/csnewman/craftlauncher/config"
	"go.uber.org/zap"
	"os"
)

// Launcher resolves the environment for an installation and hands it to the orchestrator.
type Launcher struct {
	log          *zap.SugaredLogger
	cfg          config.Config
	profile      *config.Profile
	paths        config.Paths
	locator      *Locator
	resolver     *classpath.Resolver
	orchestrator *Orchestrator
}

func NewLauncher(
	log *zap.SugaredLogger,
	cfg config.Config,
	profile *config.Profile,
	paths config.Paths,
	locator *Locator,
	resolver *classpath.Resolver,
	orchestrator *Orchestrator,
) *Launcher {
	return &Launcher{
		log:          log,
		cfg:          cfg,
		profile:      profile,
		paths:        paths,
		locator:      locator,
		resolver:     resolver,
		orchestrator: orchestrator,
	}
}

// Prepare locates the runtime and client and resolves the classpath.
func (l *Launcher) Prepare() (*Environment, error) {
	rt, err := l.locator.FindRuntime()
	if err != nil {
		return nil, err
	}

	client, err := l.locator.FindClient()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(l.paths.NativesDir(l.profile.VersionID), 0755); err != nil {
		l.log.Warnw("Could not create natives directory", "error", err)
	}

	cp, err := l.resolver.Resolve(l.paths.LibraryDir(), classpath.Descriptors(l.profile.Libraries), client)
	if err != nil {
		return nil, err
	}

	l.log.Infow("Launch environment ready", "runtime", rt, "client", client, "classpath", len(cp))

	return &Environment{
		Config:    l.cfg,
		Profile:   l.profile,
		Paths:     l.paths,
		Runtime:   rt,
		Client:    client,
		Classpath: cp,
	}, nil
}

func (l *Launcher) Launch(ctx context.Context) (*Session, error) {
	env, err := l.Prepare()
	if err != nil {
		return nil, err
	}

	return l.orchestrator.Launch(ctx, env)
}

func (l *Launcher) Orchestrator() *Orchestrator {
	return l.orchestrator
}

func (l *Launcher) Locator() *Locator {
	return l.locator
}
