package valuetable

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/benjaminbarrett1/yahtzee/config"
)

func TestCacheLoadFunc(t *testing.T) {
	is := is.New(t)
	filename := filepath.Join(t.TempDir(), "values.dat")
	tbl := New()
	is.NoErr(tbl.Set(42, 7.5))
	is.NoErr(tbl.Save(filename))

	obj, err := CacheLoadFunc(nil, "tablefile:"+filename)
	is.NoErr(err)
	loaded, ok := obj.(*Table)
	is.True(ok)
	v, err := loaded.Get(42)
	is.NoErr(err)
	is.Equal(v, float32(7.5))
}

func TestCacheLoadFuncDefaultPath(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Set("data-path", dir)

	tbl := New()
	is.NoErr(tbl.Save(cfg.TableFilePath()))

	obj, err := CacheLoadFunc(&cfg, "tablefile:")
	is.NoErr(err)
	_, ok := obj.(*Table)
	is.True(ok)
}
