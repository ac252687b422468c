package errors

import "fmt"

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to replace config file")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")

	ErrHTTPTimeoutNegative = fmt.Errorf("http_timeout cannot be negative")
	ErrMaxDepthNegative    = fmt.Errorf("max_depth cannot be negative")
	ErrResultsDirEmpty     = fmt.Errorf("results_dir cannot be empty")
	ErrUnknownConfigKey    = fmt.Errorf("unknown configuration key")
)

// ErrInvalidLogLevelWithDetails reports an unsupported log level.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: invalid log level %q, must be one of: debug, info, warn, error", ErrConfigValidation, level)
}

// ErrInvalidLogFormatWithDetails reports an unsupported log format.
func ErrInvalidLogFormatWithDetails(format string) error {
	return fmt.Errorf("%w: invalid log format %q, must be one of: text, json", ErrConfigValidation, format)
}

// ErrInvalidConfigValue reports a value that cannot be parsed for key.
func ErrInvalidConfigValue(key, value string) error {
	return fmt.Errorf("%w: invalid value %q for %s", ErrConfigValidation, value, key)
}
