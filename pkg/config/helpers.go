package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/narget/pkg/errors"
)

// SetValue sets a configuration value by key
// Supported keys:
//   - results_dir: string - Parent directory of extracted store paths
//   - http_timeout: duration - HTTP timeout, 0 disables it
//   - user_agent: string - User-Agent header sent to binary caches
//   - skip_unresolvable_links: bool - Warn instead of failing on symlinks without a store hash
//   - max_depth: int - Maximum symlink depth, 0 is unlimited
//   - log_level: string - Logging level (debug, info, warn, error)
//   - log_format: string - Log output format (text, json)
//   - post_extract: string - Path of the post-extract hooks script
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "results_dir":
		c.Settings.ResultsDir = value
	case "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.ErrInvalidConfigValue(key, value)
		}
		c.Settings.HTTPTimeout = d
	case "user_agent":
		c.Settings.UserAgent = value
	case "skip_unresolvable_links":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.ErrInvalidConfigValue(key, value)
		}
		c.Settings.SkipUnresolvableLinks = b
	case "max_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.ErrInvalidConfigValue(key, value)
		}
		c.Settings.MaxDepth = n
	case "log_level":
		c.Settings.LogLevel = value
	case "log_format":
		c.Settings.LogFormat = value
	case "post_extract":
		c.Hooks.PostExtract = value
	default:
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return c.Validate()
}

// GetValue returns the value of key as a string.
func (c *Config) GetValue(key string) (string, error) {
	if key == "post_extract" {
		return c.Hooks.PostExtract, nil
	}
	value, ok := c.ToMap()[key]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return value, nil
}

// ToMap flattens the settings into yaml key/value pairs for display.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "user_agent,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		var strValue string

		switch v := fieldValue.Interface().(type) {
		case time.Duration:
			strValue = v.String()
		case bool:
			strValue = strconv.FormatBool(v)
		case int:
			strValue = strconv.Itoa(v)
		case string:
			strValue = v
		default:
			strValue = fmt.Sprintf("%v", v)
		}

		result[yamlKey] = strValue
	}

	return result
}
