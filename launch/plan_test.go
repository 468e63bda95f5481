package launch

import (
	"errors"
	"github.com/matryer/is"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestBuildPrimary(t *testing.T) {
	is := is.New(t)
	env := testEnvironment(t)
	s := DefaultStrategies(testWindows())[0]

	p, err := s.Build(s, env)
	is.NoErr(err)

	is.Equal(p.Strategy, StrategyPrimary)
	is.Equal(p.Executable, "/usr/bin/java")
	is.Equal(p.MainClass, "net.minecraft.launchwrapper.Launch")
	is.Equal(p.WorkDir, env.Paths.GameDir)
	is.True(p.Capture)
	is.Equal(p.Window, testWindows().Primary)

	is.Equal(p.JvmFlags[0], "-Xmx2048M")
	is.Equal(p.JvmFlags[1], "-Xms512M")
	is.True(slices.Contains(p.JvmFlags, "-XX:+UseG1GC"))
	is.True(slices.Contains(p.JvmFlags, "-Dfml.ignoreInvalidMinecraftCertificates=true"))
	is.Equal(argAfter(p.JvmFlags, "-cp"), strings.Join(env.Classpath, string(filepath.ListSeparator)))

	is.Equal(argAfter(p.AppArgs, "--username"), "Player")
	is.Equal(argAfter(p.AppArgs, "--version"), "1.12.2-forge-14.23.5.2854")
	is.Equal(argAfter(p.AppArgs, "--assetIndex"), "1.12")
	is.Equal(argAfter(p.AppArgs, "--tweakClass"), "net.minecraftforge.fml.common.launcher.FMLTweaker")
	is.Equal(argAfter(p.AppArgs, "--uuid"), p.Session)
	is.Equal(len(p.Session), 32)
	is.Equal(argAfter(p.AppArgs, "--width"), "854")

	args := p.Args()
	is.Equal(args[len(p.JvmFlags)], p.MainClass)
	is.True(strings.HasPrefix(p.CommandLine(), "/usr/bin/java -Xmx2048M"))
}

func TestBuildPrimary_FreshSession(t *testing.T) {
	is := is.New(t)
	env := testEnvironment(t)
	s := DefaultStrategies(testWindows())[0]

	a, err := s.Build(s, env)
	is.NoErr(err)
	b, err := s.Build(s, env)
	is.NoErr(err)
	is.True(a.Session != b.Session)
}

func TestBuildPrimary_BadJvmArguments(t *testing.T) {
	is := is.New(t)
	env := testEnvironment(t)
	env.Config.JvmArguments = `-Dfoo="unterminated`
	s := DefaultStrategies(testWindows())[0]

	_, err := s.Build(s, env)
	is.True(err != nil)

	// Reduced does not use the extra flags
	r := DefaultStrategies(testWindows())[1]
	_, err = r.Build(r, env)
	is.NoErr(err)
}

func TestBuildReducedAndMinimal(t *testing.T) {
	is := is.New(t)
	env := testEnvironment(t)
	strategies := DefaultStrategies(testWindows())

	r, err := strategies[1].Build(strategies[1], env)
	is.NoErr(err)
	is.Equal(r.MainClass, "net.minecraft.client.main.Main")
	is.Equal(argAfter(r.JvmFlags, "-cp"), strings.Join(env.Classpath, string(filepath.ListSeparator)))
	is.True(!slices.Contains(r.AppArgs, "--tweakClass"))
	is.True(!slices.Contains(r.JvmFlags, "-XX:+UseG1GC"))

	m, err := strategies[2].Build(strategies[2], env)
	is.NoErr(err)
	is.Equal(argAfter(m.JvmFlags, "-cp"), env.Client)
	is.True(!m.Capture)
	is.Equal(m.AppArgs, []string{"--username", "Player", "--version", "1.12.2", "--gameDir", env.Paths.GameDir})

	env.Client = ""
	_, err = strategies[2].Build(strategies[2], env)
	is.True(errors.Is(err, ErrClientArchiveNotFound))

	is.True(strategies[3].Diagnostic())
}
