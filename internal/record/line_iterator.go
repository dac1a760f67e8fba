// Package record implements the byte-stream-to-record boundary: line
// splitting, field splitting/joining under each supported policy, and the
// faithful CSV quoting semantics the spec requires.
package record

import (
	"bufio"
	"io"

	"github.com/rbql-go/rbql/internal/warn"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultChunkSize is the buffer size LineIterator requests from the
// underlying reader when the caller doesn't specify one.
const DefaultChunkSize = 64 * 1024

// LineIterator yields logical lines from r, splitting on any of \n, \r\n,
// or \r, and never including the terminator in the returned line. Only the
// primary stream's iterator should have stripBOM set: join tables are never
// BOM-checked by the spec.
type LineIterator struct {
	r        *bufio.Reader
	stripBOM bool
	bomDone  bool
	bus      *warn.Bus
}

// NewLineIterator wraps src. chunkSize <= 0 uses DefaultChunkSize.
func NewLineIterator(src io.Reader, chunkSize int, stripBOM bool, bus *warn.Bus) *LineIterator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &LineIterator{
		r:        bufio.NewReaderSize(src, chunkSize),
		stripBOM: stripBOM,
		bus:      bus,
	}
}

// Next returns the next logical line. ok is false once the stream is
// exhausted (the final unterminated remainder, if non-empty, is returned
// first). err is non-nil only on a genuine read error from src.
func (li *LineIterator) Next() (line string, ok bool, err error) {
	buf, readErr := li.readLogicalLine()
	if readErr != nil && readErr != io.EOF {
		return "", false, readErr
	}
	if len(buf) == 0 && readErr == io.EOF {
		return "", false, nil
	}

	if li.stripBOM && !li.bomDone {
		li.bomDone = true
		if len(buf) >= len(utf8BOM) && buf[0] == utf8BOM[0] && buf[1] == utf8BOM[1] && buf[2] == utf8BOM[2] {
			buf = buf[len(utf8BOM):]
			if li.bus != nil {
				li.bus.Add(warn.UTF8BOMRemoved, "")
			}
		}
	}

	return string(buf), true, nil
}

// readLogicalLine reads bytes up to (but excluding) the next line
// terminator, consuming the terminator itself (including both bytes of a
// \r\n pair). EOF with no terminator returns the accumulated bytes and
// io.EOF together, which Next treats as "final remainder".
func (li *LineIterator) readLogicalLine() ([]byte, error) {
	var out []byte
	for {
		b, err := li.r.ReadByte()
		if err != nil {
			return out, err
		}
		switch b {
		case '\n':
			return out, nil
		case '\r':
			next, err := li.r.ReadByte()
			if err == nil && next != '\n' {
				_ = li.r.UnreadByte()
			}
			return out, nil
		default:
			out = append(out, b)
		}
	}
}
