package hooks_test

import (
	"testing"

	"github.com/glorpus-work/narget/pkg/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTengoExecutor(t *testing.T) {
	executor := hooks.NewTengoExecutor()
	ctx := hooks.HookContext{
		Hash:        "0i6ardx43rdg24ab1nc3mq7f5ykyiamb",
		ArchiveURL:  "https://cache.nixos.org/nar/abc.nar.xz",
		ExtractPath: "/tmp/result/0i6ardx43rdg24ab1nc3mq7f5ykyiamb",
		Vars: map[string]interface{}{
			"customVar": "customValue",
		},
	}

	t.Run("Execute empty script", func(t *testing.T) {
		executor.AddScript(hooks.PostExtract, `// This is a valid script that does nothing`)

		err := executor.Execute(hooks.PostExtract, ctx)
		assert.NoError(t, err, "Execute should not return an error for valid script")
	})

	t.Run("Execute script with runtime error", func(t *testing.T) {
		hookType := hooks.HookType("broken")
		executor.AddScript(hookType, `non_existent_function()`)

		err := executor.Execute(hookType, ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, hooks.ErrHookExecution)
	})

	t.Run("Script sets err", func(t *testing.T) {
		hookType := hooks.HookType("failing")
		executor.AddScript(hookType, `err := "refusing " + storeHash`)

		err := executor.Execute(hookType, ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, hooks.ErrHookScript)
		assert.Contains(t, err.Error(), "refusing 0i6ardx43rdg24ab1nc3mq7f5ykyiamb")
	})

	t.Run("Execute non-existent script", func(t *testing.T) {
		err := executor.Execute("non-existent-hooks", ctx)
		assert.NoError(t, err, "Execute should not return an error for non-existent hooks")
	})

	t.Run("HasScript check", func(t *testing.T) {
		hookType := hooks.HookType("test-hooks")
		assert.False(t, executor.HasScript(hookType), "Should not have script before adding")

		executor.AddScript(hookType, "// test script")
		assert.True(t, executor.HasScript(hookType), "Should have script after adding")
	})

	t.Run("Context variables are accessible", func(t *testing.T) {
		hookType := hooks.HookType("context")
		script := `
			err := ""
			if storeHash == "" || archiveURL == "" || extractPath == "" || customVar != "customValue" || depth != 0 {
				err = "missing context"
			}
		`
		executor.AddScript(hookType, script)

		err := executor.Execute(hookType, ctx)
		assert.NoError(t, err, "Context variables should be accessible in script")
	})
}
