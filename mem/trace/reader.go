// Package trace reads memory reference traces and replays them into a cache
// hierarchy.
//
// A trace is a text stream with one reference per line:
//
//	I 0x00400b30
//	D 0x7fff5c10
//
// The first field is the access kind (I for instruction, D, L or S for data,
// in either case). The second field is the address in hexadecimal, with or
// without the 0x prefix. Blank lines and lines starting with # are ignored.
// Fields after the address are ignored.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/mem/hierarchy"
)

// A Record is a single memory reference.
type Record struct {
	Kind    hierarchy.AccessKind
	Address uint32
}

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrMissingAddress is the cause of a ParseError on a line with only a kind.
var ErrMissingAddress = errors.New("missing address")

// Reader reads records from a text trace.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Next returns the next record. It returns io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		record, err := ParseLine(text)
		if err != nil {
			return Record{}, &ParseError{Line: r.line, Text: text, Err: err}
		}

		return record, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, err
	}

	return Record{}, io.EOF
}

// ReadAll reads all the remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	records := []Record{}

	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return records, err
		}

		records = append(records, record)
	}
}

// ParseLine parses one non-empty trace line.
func ParseLine(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return Record{}, ErrMissingAddress
	}

	kind, err := hierarchy.ParseAccessKind(fields[0])
	if err != nil {
		return Record{}, err
	}

	addrText := strings.TrimPrefix(strings.ToLower(fields[1]), "0x")

	addr, err := strconv.ParseUint(addrText, 16, 32)
	if err != nil {
		return Record{}, err
	}

	return Record{Kind: kind, Address: uint32(addr)}, nil
}

// WriteRecord writes a record in the trace format.
func WriteRecord(w io.Writer, record Record) error {
	kind := "D"
	if record.Kind == hierarchy.Instruction {
		kind = "I"
	}

	_, err := fmt.Fprintf(w, "%s 0x%08x\n", kind, record.Address)

	return err
}
