package config

import (
	"listfetch/source"
)

// LoadSourceConfig delegates to the source loader while centralizing
// loader entrypoints under internal/config.
func LoadSourceConfig(path string) (source.Config, error) {
	return source.LoadConfig(path)
}
