//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/narget/internal/cli"
	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testHash = "9krlzvny65gdc8s7kpb6lkx8cd02c25b"

func writeConfig(t *testing.T, resultsDir string) string {
	t.Helper()
	data, err := yaml.Marshal(map[string]any{
		"settings": map[string]any{"results_dir": resultsDir},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func useCaches(t *testing.T, caches ...*testutil.BinaryCache) {
	t.Helper()
	old := cli.Endpoints
	cli.Endpoints = nil
	for _, c := range caches {
		cli.Endpoints = append(cli.Endpoints, c.URL())
	}
	logger.SetTestOutput(&bytes.Buffer{})
	t.Cleanup(func() {
		cli.Endpoints = old
		logger.UnsetTestOutput()
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "narget version")
}

func TestRootCommand_FetchesStorePath(t *testing.T) {
	empty := testutil.NewBinaryCache(t)
	full := testutil.NewBinaryCache(t)
	full.AddNAR(testHash, "hello", testutil.XZ(t, testutil.BuildNAR(t, testutil.File("/hello.txt", "hi"))))
	useCaches(t, empty, full)

	results := filepath.Join(t.TempDir(), "result")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", writeConfig(t, results), "/nix/store/" + testHash + "-hello"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(filepath.Join(results, testHash, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	assert.Contains(t, out.String(), "resolving: "+testHash)
}

func TestRootCommand_RequiresOneArgument(t *testing.T) {
	for _, args := range [][]string{{}, {testHash, testHash}} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.ExecuteContext(context.Background()), "args: %v", args)
	}
}

func TestInfoCommand(t *testing.T) {
	c := testutil.NewBinaryCache(t)
	c.AddNAR(testHash, "hello", testutil.XZ(t, testutil.BuildNAR(t, testutil.File("/hello.txt", "hi"))))
	useCaches(t, c)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", writeConfig(t, t.TempDir()), "info", testHash})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "nar/"+testHash+".nar.xz")
	assert.Len(t, c.Requests(), 1)
}
