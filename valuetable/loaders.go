package valuetable

import (
	"strings"

	"github.com/benjaminbarrett1/yahtzee/config"
)

// CacheLoadFunc loads a table file on behalf of the object cache. Keys
// look like "tablefile:<path>"; an empty path means the configured
// default location.
func CacheLoadFunc(cfg *config.Config, key string) (any, error) {
	filename := strings.TrimPrefix(key, "tablefile:")
	if filename == "" {
		filename = cfg.TableFilePath()
	}
	return Load(filename)
}
