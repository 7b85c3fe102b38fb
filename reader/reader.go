// Package reader turns the raw capture file into an ordered sequence of
// log records. Malformed lines are dropped and counted, never propagated.
package reader

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testinfra/log-acceptor/metrics"
	"github.com/testinfra/log-acceptor/types"
)

// ErrSourceNotFound indicates the capture file does not exist. This is
// distinct from a parse warning: the caller gets zero records and decides
// how the missing source affects the overall verdict.
var ErrSourceNotFound = errors.New("log source not found")

// maxLineSize bounds a single console record. Browser harnesses can emit
// very long lines (stack traces, serialized objects); anything over the
// limit is dropped like a malformed line, never fatal.
const maxLineSize = 1024 * 1024

// Result holds the records read from one source plus read diagnostics.
type Result struct {
	Records []types.LogRecord
	Skipped int // count of lines dropped as unparsable
}

// ReadFile reads all records from the capture file at path.
// A missing file returns an empty Result and an error wrapping
// ErrSourceNotFound.
func ReadFile(path string, logger log.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Result{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return &Result{}, fmt.Errorf("failed to open log source %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, logger)
}

// Read reads records from r, one JSON object per line. Blank lines are
// skipped silently; lines that fail to parse and lines over maxLineSize
// are dropped with a warning. Records are never reordered.
func Read(r io.Reader, logger log.Logger) (*Result, error) {
	result := &Result{}
	br := bufio.NewReaderSize(r, 64*1024)

	lineNum := 0
	for {
		line, tooLong, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return result, fmt.Errorf("failed to scan log source: %w", err)
		}
		atEOF := errors.Is(err, io.EOF)
		if atEOF && len(line) == 0 && !tooLong {
			break
		}
		lineNum++

		switch {
		case tooLong:
			result.Skipped++
			metrics.RecordMalformedLine()
			logger.Warn("Dropping oversized log line", "line", lineNum, "limit", maxLineSize)

		case len(strings.TrimSpace(string(line))) > 0:
			var record types.LogRecord
			if err := json.Unmarshal(line, &record); err != nil {
				result.Skipped++
				metrics.RecordMalformedLine()
				logger.Warn("Dropping unparsable log line", "line", lineNum, "err", err)
				break
			}
			result.Records = append(result.Records, record)
			metrics.RecordLine()
		}

		if atEOF {
			break
		}
	}

	logger.Debug("Read log source", "records", len(result.Records), "skipped", result.Skipped)
	return result, nil
}

// readLine reads one full line, reassembling continuation chunks. A line
// over maxLineSize is consumed to its newline and reported as oversized
// with no content, so the reader stays aligned for the lines after it.
func readLine(br *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineSize {
				line = nil
				tooLong = true
			}
		}
		if !isPrefix || err != nil {
			return line, tooLong, err
		}
	}
}
