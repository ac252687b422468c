package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/narget/internal/logger"
	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/glorpus-work/narget/pkg/hooks"
	"github.com/glorpus-work/narget/pkg/orchestrator"
	"github.com/glorpus-work/narget/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashH   = "0i6ardx43rdg24ab1nc3mq7f5ykyiamb"
	hashDep = "1w6qsz0q4n5vlg2ralx1ykndrcjyz4sk"
)

// setupCLI points the package at a temporary config file and the given caches. It returns the
// results directory.
func setupCLI(t *testing.T, extraConfig string, caches ...*testutil.BinaryCache) string {
	t.Helper()

	dir := t.TempDir()
	results := filepath.Join(dir, "result")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("settings:\n  results_dir: %s\n  http_timeout: 10s\n%s", results, extraConfig)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	endpoints := make([]string, 0, len(caches))
	for _, c := range caches {
		endpoints = append(endpoints, c.URL())
	}

	oldEndpoints, oldConfigPath, oldVerbose := Endpoints, ConfigPath, Verbose
	verbose := false
	Endpoints = endpoints
	ConfigPath = &cfgPath
	Verbose = &verbose

	var logs bytes.Buffer
	logger.SetTestOutput(&logs)

	t.Cleanup(func() {
		Endpoints, ConfigPath, Verbose = oldEndpoints, oldConfigPath, oldVerbose
		logger.UnsetTestOutput()
	})
	return results
}

func TestRunFetch_SecondCacheServesArchive(t *testing.T) {
	cacheA := testutil.NewBinaryCache(t)
	cacheB := testutil.NewBinaryCache(t)
	cacheC := testutil.NewBinaryCache(t)

	archivePath := "/nix/store/" + hashH + "-foo.nar.xz"
	cacheB.AddNarInfo(hashH, "URL: unused\nStorePath: "+archivePath+"\n")
	cacheB.AddArchive(archivePath, testutil.XZ(t, testutil.BuildNAR(t, testutil.File("/hello.txt", "hi"))))

	results := setupCLI(t, "", cacheA, cacheB, cacheC)

	var out bytes.Buffer
	require.NoError(t, RunFetch(context.Background(), &out, hashH))

	data, err := os.ReadFile(filepath.Join(results, hashH, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	assert.Equal(t, []string{"/" + hashH + ".narinfo"}, cacheA.Requests())
	assert.Equal(t, []string{"/" + hashH + ".narinfo", "/" + archivePath}, cacheB.Requests())
	assert.Empty(t, cacheC.Requests())
	assert.Contains(t, out.String(), "done: ")
}

func TestRunFetch_FollowsSymlinkIntoOtherCache(t *testing.T) {
	primary := testutil.NewBinaryCache(t)
	mirror := testutil.NewBinaryCache(t)

	primary.AddNAR(hashH, "app", testutil.XZ(t, testutil.BuildNAR(t,
		testutil.Dir("/bin"),
		testutil.Exec("/bin/app", "#!/bin/sh\n"),
		testutil.Symlink("/lib", "/nix/store/"+hashDep+"-libfoo/lib"),
	)))
	mirror.AddNAR(hashDep, "libfoo", testutil.XZ(t, testutil.BuildNAR(t,
		testutil.Dir("/lib"),
		testutil.File("/lib/libfoo.so", "ELF"),
	)))

	results := setupCLI(t, "", primary, mirror)

	var out bytes.Buffer
	require.NoError(t, RunFetch(context.Background(), &out, "/nix/store/"+hashH+"-app/bin/app"))

	info, err := os.Stat(filepath.Join(results, hashH, "bin", "app"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(results, hashDep, "lib", "libfoo.so"))
	require.NoError(t, err)
	assert.Equal(t, "ELF", string(data))

	_, err = os.Lstat(filepath.Join(results, hashH, "lib"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), "following: lib -> /nix/store/"+hashDep+"-libfoo/lib ("+hashDep+")")
}

func TestRunFetch_Errors(t *testing.T) {
	t.Run("no identifier", func(t *testing.T) {
		setupCLI(t, "", testutil.NewBinaryCache(t))
		err := RunFetch(context.Background(), &bytes.Buffer{}, "not-a-hash")
		assert.ErrorIs(t, err, pkgerrors.ErrNoIdentifierFound)
	})

	t.Run("not in any cache", func(t *testing.T) {
		setupCLI(t, "", testutil.NewBinaryCache(t), testutil.NewBinaryCache(t))
		err := RunFetch(context.Background(), &bytes.Buffer{}, hashH)
		assert.ErrorIs(t, err, pkgerrors.ErrResolutionExhausted)
	})

	t.Run("archive missing", func(t *testing.T) {
		c := testutil.NewBinaryCache(t)
		c.AddNarInfo(hashH, testutil.NarInfo(hashH, "foo", "nar/missing.nar.xz"))
		setupCLI(t, "", c)
		err := RunFetch(context.Background(), &bytes.Buffer{}, hashH)
		assert.ErrorIs(t, err, pkgerrors.ErrArchiveUnavailable)
	})

	t.Run("invalid config", func(t *testing.T) {
		setupCLI(t, "  max_depth: -2\n", testutil.NewBinaryCache(t))
		err := RunFetch(context.Background(), &bytes.Buffer{}, hashH)
		assert.ErrorIs(t, err, pkgerrors.ErrConfigValidation)
	})
}

func TestRunFetch_PostExtractHook(t *testing.T) {
	newCache := func(t *testing.T) *testutil.BinaryCache {
		c := testutil.NewBinaryCache(t)
		c.AddNAR(hashH, "foo", testutil.XZ(t, testutil.BuildNAR(t, testutil.File("/hello.txt", "hi"))))
		return c
	}
	writeHook := func(t *testing.T, script string) string {
		path := filepath.Join(t.TempDir(), "post-extract.tengo")
		require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
		return path
	}

	t.Run("passing hook", func(t *testing.T) {
		hook := writeHook(t, `
os := import("os")
err := ""
if is_error(os.stat(extractPath + "/hello.txt")) {
	err = "hello.txt missing"
}
`)
		setupCLI(t, "hooks:\n  post_extract: "+hook+"\n", newCache(t))
		require.NoError(t, RunFetch(context.Background(), &bytes.Buffer{}, hashH))
	})

	t.Run("failing hook", func(t *testing.T) {
		hook := writeHook(t, `err := "refusing " + storeHash`)
		setupCLI(t, "hooks:\n  post_extract: "+hook+"\n", newCache(t))
		err := RunFetch(context.Background(), &bytes.Buffer{}, hashH)
		require.Error(t, err)
		assert.ErrorIs(t, err, hooks.ErrHookScript)
		assert.Contains(t, err.Error(), "refusing "+hashH)
	})

	t.Run("missing hook file", func(t *testing.T) {
		setupCLI(t, "hooks:\n  post_extract: /does/not/exist.tengo\n", newCache(t))
		err := RunFetch(context.Background(), &bytes.Buffer{}, hashH)
		assert.ErrorIs(t, err, hooks.ErrHookLoad)
	})
}

func TestRunInfo(t *testing.T) {
	miss := testutil.NewBinaryCache(t)
	hit := testutil.NewBinaryCache(t)
	hit.AddNarInfo(hashH, fmt.Sprintf(`StorePath: /nix/store/%s-hello-2.12.1
URL: nar/abc.nar.xz
Compression: xz
FileSize: 50264
NarSize: 226560
References: %s-hello-2.12.1 %s-glibc-2.38
`, hashH, hashH, hashDep))
	setupCLI(t, "", miss, hit)

	var out bytes.Buffer
	require.NoError(t, runInfo(context.Background(), &out, "/nix/store/"+hashH+"-hello-2.12.1"))

	output := out.String()
	assert.Contains(t, output, hit.URL())
	assert.Contains(t, output, "/nix/store/"+hashH+"-hello-2.12.1")
	assert.Contains(t, output, "nar/abc.nar.xz")
	assert.Contains(t, output, "226560")
	assert.Contains(t, output, hashDep+"-glibc-2.38")
	assert.Empty(t, hit.Requests()[1:], "info never downloads the archive")
}

func TestConfigCommands(t *testing.T) {
	setupCLI(t, "")

	require.NoError(t, runConfigSet("max_depth", "7"))

	var out bytes.Buffer
	require.NoError(t, runConfigGet(&out, "max_depth"))
	assert.Equal(t, "7\n", out.String())

	out.Reset()
	require.NoError(t, runConfigShow(&out))
	assert.Contains(t, out.String(), "max_depth")
	assert.Contains(t, out.String(), "Binary caches (0)")

	err := runConfigInit(false, false)
	assert.ErrorIs(t, err, pkgerrors.ErrConfigFileExists)
	require.NoError(t, runConfigInit(true, false))

	out.Reset()
	require.NoError(t, runConfigGet(&out, "max_depth"))
	assert.Equal(t, "0\n", out.String())
}

func TestConfigInit_WithHook(t *testing.T) {
	setupCLI(t, "")
	hookPath := filepath.Join(filepath.Dir(getConfigPath()), "post-extract.tengo")

	require.NoError(t, runConfigInit(true, true))

	script, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Equal(t, hooks.HookTemplate(hooks.PostExtract), string(script))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, hookPath, cfg.Hooks.PostExtract)

	orch, err := loadOrchestrator(cfg, orchestrator.Hooks{})
	require.NoError(t, err)
	require.NotNil(t, orch.HookRunner)
	assert.NoError(t, orch.HookRunner.Execute(hooks.PostExtract, hooks.HookContext{Hash: hashH, ExtractPath: t.TempDir()}))

	require.NoError(t, os.Remove(getConfigPath()))
	err = runConfigInit(false, true)
	assert.ErrorIs(t, err, pkgerrors.ErrConfigFileExists)
}
