package registry

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/types"
)

// Registry is the ordered emote catalogue of a run
type Registry struct {
	records []types.EmoteRecord
}

// MappingEntry is one line of the mapping file
type MappingEntry struct {
	Name      string
	Codepoint uint32
}

// Build concatenates local records followed by remote records
func Build(local, remote []types.EmoteRecord) *Registry {
	records := make([]types.EmoteRecord, 0, len(local)+len(remote))
	records = append(records, local...)
	records = append(records, remote...)
	return &Registry{records: records}
}

// Records returns a copy of the catalogue in order
func (r *Registry) Records() []types.EmoteRecord {
	out := make([]types.EmoteRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of emotes in the catalogue
func (r *Registry) Len() int {
	return len(r.records)
}

// CountByOrigin returns how many records came from each origin
func (r *Registry) CountByOrigin() map[types.Origin]int {
	counts := make(map[types.Origin]int)
	for _, rec := range r.records {
		counts[rec.Origin]++
	}
	return counts
}

// Mapping returns the name to codepoint mapping in catalogue order
func (r *Registry) Mapping() []MappingEntry {
	entries := make([]MappingEntry, len(r.records))
	for i, rec := range r.records {
		entries[i] = MappingEntry{Name: rec.Name, Codepoint: rec.Codepoint}
	}
	return entries
}

// MarshalMapping renders the mapping as one "<name>,<hex>\n" line per emote
func (r *Registry) MarshalMapping() []byte {
	var buf bytes.Buffer
	for _, rec := range r.records {
		fmt.Fprintf(&buf, "%s,%s\n", rec.Name, rec.HexCodepoint())
	}
	return buf.Bytes()
}

// WriteMapping writes the mapping file to path, creating its parent directory
func (r *Registry) WriteMapping(fsys types.FS, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "unable to create directory for mapping file: %s", dir)
		}
	}
	if err := fsys.WriteFile(path, r.MarshalMapping(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to write mapping file: %s", path)
	}
	return nil
}

// ParseMapping reads a mapping file produced by MarshalMapping.
// The codepoint is taken after the last comma so names may contain commas.
func ParseMapping(data []byte) ([]MappingEntry, error) {
	var entries []MappingEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		idx := strings.LastIndexByte(text, ',')
		if idx <= 0 {
			return nil, errors.Newf(errors.ErrInvalidInput, "mapping line %d: missing name or codepoint", line)
		}
		cp, err := strconv.ParseUint(text[idx+1:], 16, 32)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "mapping line %d: bad codepoint", line)
		}
		entries = append(entries, MappingEntry{Name: text[:idx], Codepoint: uint32(cp)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileRead, "reading mapping")
	}
	return entries, nil
}
