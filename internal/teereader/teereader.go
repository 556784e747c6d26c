// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

const chunkSize = 32 * 1024

// CursorReader wraps an io.Reader whose end may move forward between reads, such as a
// file that a child process writes to. Reaching the current end is not an error:
// the next call picks up whatever was appended since.
// It is safe for concurrent use.
type CursorReader struct {
	br      *bufio.Reader
	history *bytes.Buffer
	mu      sync.Mutex
}

// NewCursorReader creates a CursorReader positioned at the start of r.
func NewCursorReader(r io.Reader) *CursorReader {
	return &CursorReader{
		br:      bufio.NewReaderSize(r, chunkSize),
		history: &bytes.Buffer{},
	}
}

// ReadAvailable returns every byte between the cursor and the current end of the
// underlying reader, including anything buffered by an earlier ReadLine.
// It returns an empty slice when nothing new has been written.
func (cr *CursorReader) ReadAvailable() ([]byte, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	out := &bytes.Buffer{}
	buf := make([]byte, chunkSize)

	for {
		n, err := cr.br.Read(buf)
		out.Write(buf[:n])

		if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
			break
		}

		if err != nil {
			cr.record(out.Bytes())
			return out.Bytes(), fmt.Errorf("reading output: %w", err)
		}
	}

	cr.record(out.Bytes())

	return out.Bytes(), nil
}

// ReadLine returns the next line including its trailing newline.
// If the writer has not finished the line yet the available fragment is returned
// without a newline; the rest of that line comes back on a later call.
// An empty slice means nothing new is available.
func (cr *CursorReader) ReadLine() ([]byte, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	line, err := cr.br.ReadBytes('\n')
	cr.record(line)

	if err != nil && !errors.Is(err, io.EOF) {
		return line, fmt.Errorf("reading output line: %w", err)
	}

	return line, nil
}

// record appends p to the history. Must be called with the lock held.
func (cr *CursorReader) record(p []byte) {
	cr.history.Write(p)
}

// Bytes returns a copy of everything consumed through the cursor so far.
func (cr *CursorReader) Bytes() []byte {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	return bytes.Clone(cr.history.Bytes())
}
