package trace

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// Reader streams addresses from a text trace: one address per line, in
// decimal or 0x-prefixed hexadecimal. Blank lines and lines starting with
// '#' are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// All yields every address of the trace. Iteration stops after the first
// error, which is yielded with a zero address.
func (r *Reader) All() iter.Seq2[uint64, error] {
	return func(yield func(uint64, error) bool) {
		for r.scanner.Scan() {
			r.line++

			text := strings.TrimSpace(r.scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			addr, err := ParseAddress(text)
			if err != nil {
				yield(0, fmt.Errorf("line %d: %w", r.line, err))
				return
			}

			if !yield(addr, nil) {
				return
			}
		}

		if err := r.scanner.Err(); err != nil {
			yield(0, fmt.Errorf("failed to read trace: %w", err))
		}
	}
}

// ParseAddress parses a decimal or 0x-prefixed hexadecimal address.
// Negative and malformed values fail with cache.ErrInvalidAddress.
func ParseAddress(text string) (uint64, error) {
	if strings.HasPrefix(text, "-") {
		return 0, fmt.Errorf("%w: negative address %s", cache.ErrInvalidAddress, text)
	}

	digits, base := text, 10
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		digits, base = text[2:], 16
	}

	addr, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse %q", cache.ErrInvalidAddress, text)
	}

	return addr, nil
}

// Load reads a whole trace file.
func Load(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var addrs []uint64
	for addr, err := range NewReader(f).All() {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		addrs = append(addrs, addr)
	}

	return addrs, nil
}

// Save writes addrs to path, one decimal address per line.
func Save(path string, addrs []uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	if err := Write(f, addrs); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}

	return nil
}

// Write writes addrs to w, one decimal address per line.
func Write(w io.Writer, addrs []uint64) error {
	bw := bufio.NewWriter(w)
	for _, addr := range addrs {
		if _, err := bw.WriteString(strconv.FormatUint(addr, 10) + "\n"); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}

	return nil
}

// Addresses drops the errors of seq, stopping at the first one. The error
// is stored in *errp.
func Addresses(seq iter.Seq2[uint64, error], errp *error) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for addr, err := range seq {
			if err != nil {
				*errp = err
				return
			}
			if !yield(addr) {
				return
			}
		}
	}
}
