package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/benjaminbarrett1/yahtzee/config"
)

func TestLoadCachesObjects(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	cfg := config.DefaultConfig()

	calls := 0
	lf := func(c *config.Config, key string) (any, error) {
		calls++
		return key + "-obj", nil
	}

	obj, err := Load(&cfg, "tablefile:a", lf)
	is.NoErr(err)
	is.Equal(obj, "tablefile:a-obj")

	obj, err = Load(&cfg, "tablefile:a", lf)
	is.NoErr(err)
	is.Equal(obj, "tablefile:a-obj")
	is.Equal(calls, 1) // second lookup served from the cache

	_, err = Load(&cfg, "tablefile:b", lf)
	is.NoErr(err)
	is.Equal(calls, 2)
}

func TestLoadErrorNotCached(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	cfg := config.DefaultConfig()

	boom := errors.New("boom")
	fails := true
	lf := func(c *config.Config, key string) (any, error) {
		if fails {
			return nil, boom
		}
		return "ok", nil
	}

	_, err := Load(&cfg, "k", lf)
	is.True(errors.Is(err, boom))

	fails = false
	obj, err := Load(&cfg, "k", lf)
	is.NoErr(err)
	is.Equal(obj, "ok")
}
