package valuetable

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// The on-disk format is positional: every slot, sentinels included, as a
// 4-byte IEEE-754 little-endian float in index order. No header, no
// version tag; readers and writers must agree on the table size. For the
// full state space the file is exactly 2,097,152 bytes.

// Export writes the whole table to w in index order.
func (t *Table) Export(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, t.values); err != nil {
		return fmt.Errorf("exporting %d table values: %w", len(t.values), err)
	}
	return nil
}

// Import reads exactly size values from r into a fresh table. A stream
// with fewer values is a format error and no table is returned; trailing
// bytes beyond the expected count are not read or validated.
func Import(r io.Reader, size int) (*Table, error) {
	values := make([]float32, size)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, fmt.Errorf("table stream truncated: want %d values (%d bytes): %w",
			size, size*entrySize, err)
	}
	return &Table{values: values}, nil
}

// Save exports the table to a file. The write goes through a temporary
// file renamed into place on success, so a failed export leaves no partial
// file behind.
func (t *Table) Save(filename string) error {
	tmp := filename + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	w := bufio.NewWriter(f)
	if err := t.Export(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return err
	}
	log.Info().Str("filename", filename).
		Int("bytes", len(t.values)*entrySize).
		Msg("saved-value-table")
	return nil
}

// Load imports a full-size table from a file.
func Load(filename string) (*Table, error) {
	return LoadSized(filename, 0)
}

// LoadSized imports a table with the given number of slots; size 0 means
// the full state space.
func LoadSized(filename string, size int) (*Table, error) {
	if size == 0 {
		size = fullSize
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening table file %s: %w", filename, err)
	}
	defer f.Close()
	t, err := Import(bufio.NewReader(f), size)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", filename, err)
	}
	log.Debug().Str("filename", filename).Int("num-elems", size).Msg("loaded-value-table")
	return t, nil
}
