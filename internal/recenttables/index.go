// Package recenttables implements the tab-separated sidecar file that lets a
// JOIN clause name a table by a short lookup key instead of a full path,
// an injected collaborator the way database/file.FileDatabase wraps a path.
package recenttables

import (
	"bufio"
	"os"
	"strings"
)

// Entry is one recorded table: enough to reopen and split it the same way
// it was read the first time.
type Entry struct {
	Path     string
	Delim    string
	Policy   string
	Encoding string
}

// Index wraps a TSV sidecar file of [path, delim, policy, encoding] rows,
// most-recently-used last.
type Index struct {
	path    string
	maxSize int
	entries []Entry
}

// Open reads the sidecar file at path, if it exists, into memory. A missing
// file is not an error: it means no tables have been recorded yet.
func Open(path string, maxSize int) (*Index, error) {
	idx := &Index{path: path, maxSize: maxSize}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 4 {
			continue
		}
		idx.entries = append(idx.entries, Entry{
			Path: fields[0], Delim: fields[1], Policy: fields[2], Encoding: fields[3],
		})
	}
	return idx, scanner.Err()
}

// Resolve looks up key either as a literal path already present on disk, or
// as the path field of a recorded entry, most-recently-touched match first.
func (idx *Index) Resolve(key string) (Entry, bool) {
	for i := len(idx.entries) - 1; i >= 0; i-- {
		if idx.entries[i].Path == key {
			return idx.entries[i], true
		}
	}
	if _, err := os.Stat(key); err == nil {
		return Entry{Path: key}, true
	}
	return Entry{}, false
}

// Touch records entry as most-recently-used, moving it to the tail if
// already present, then trims anything past maxSize from the head, and
// persists the result.
func (idx *Index) Touch(entry Entry) error {
	for i, e := range idx.entries {
		if e.Path == entry.Path {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			break
		}
	}
	idx.entries = append(idx.entries, entry)
	if idx.maxSize > 0 && len(idx.entries) > idx.maxSize {
		idx.entries = idx.entries[len(idx.entries)-idx.maxSize:]
	}
	return idx.save()
}

func (idx *Index) save() error {
	if idx.path == "" {
		return nil
	}
	if err := os.MkdirAll(dirOf(idx.path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(idx.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range idx.entries {
		line := strings.Join([]string{e.Path, e.Delim, e.Policy, e.Encoding}, "\t")
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}

// Size reports how many entries are currently recorded.
func (idx *Index) Size() int { return len(idx.entries) }
