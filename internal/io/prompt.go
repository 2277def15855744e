package io

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// LineReader reads lines from r in a background goroutine so a read can
// be abandoned when its context is cancelled. The goroutine only reads
// while a ReadLine call is waiting for its line, so other prompts may use
// the same input between calls. A LineReader is not safe for concurrent use.
type LineReader struct {
	r        io.Reader
	once     sync.Once
	requests chan struct{}
	results  chan lineResult
	pending  bool
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:        r,
		requests: make(chan struct{}),
		results:  make(chan lineResult, 1),
	}
}

func (lr *LineReader) start() {
	go func() {
		scanner := bufio.NewScanner(lr.r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for range lr.requests {
			if scanner.Scan() {
				lr.results <- lineResult{line: strings.TrimRight(scanner.Text(), "\r")}
				continue
			}

			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			lr.results <- lineResult{err: err}
			for range lr.requests {
				lr.results <- lineResult{err: err}
			}
			return
		}
	}()
}

// ReadLine blocks for the next line; it returns io.EOF once input ends.
// A read abandoned through ctx is picked up by the next call.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	lr.once.Do(lr.start)

	if !lr.pending {
		lr.requests <- struct{}{}
		lr.pending = true
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-lr.results:
		lr.pending = false
		return res.line, res.err
	}
}
