package hooks

// DefaultHookManager is the default implementation of HookManager.
type DefaultHookManager struct {
	executor *TengoExecutor
}

// NewHookManager creates a new hooks manager.
func NewHookManager() *DefaultHookManager {
	return &DefaultHookManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the specified hooks type with the given context. It is a no-op when no hooks
// of that type is registered.
func (m *DefaultHookManager) Execute(hookType HookType, ctx HookContext) error {
	if !m.HasHook(hookType) {
		return nil
	}

	ctxCopy := ctx
	if ctxCopy.Vars == nil {
		ctxCopy.Vars = make(map[string]interface{})
	}

	return m.executor.Execute(hookType, ctxCopy)
}

// AddHook adds a new hooks.
func (m *DefaultHookManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	m.executor.AddScript(hook.Type, hook.Content)
	return nil
}

// HasHook checks if a hooks of the specified type exists.
func (m *DefaultHookManager) HasHook(hookType HookType) bool {
	return m.executor.HasScript(hookType)
}
