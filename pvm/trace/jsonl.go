package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrTraceWriterClosed is returned when WriteStep is called after Close.
var ErrTraceWriterClosed = errors.New("trace writer is closed")

// JSONLWriter writes one JSON object per Step and line. It is safe for
// concurrent use.
type JSONLWriter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	buf    *bufio.Writer
	closer io.Closer // set only when the writer owns the destination
	closed bool
}

func newJSONLWriter(w io.Writer, size int, closer io.Closer) *JSONLWriter {
	buf := bufio.NewWriterSize(w, size)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{enc: enc, buf: buf, closer: closer}
}

// NewJSONLWriter wraps w. Close flushes but does not close w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return newJSONLWriter(w, 64*1024, nil)
}

// NewJSONLWriterFile creates or truncates path. Close also closes the file.
func NewJSONLWriterFile(path string) (*JSONLWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return newJSONLWriter(f, 64*1024, f), nil
}

// NewJSONLWriterStdout writes to stdout with a small buffer.
func NewJSONLWriterStdout() *JSONLWriter {
	return newJSONLWriter(os.Stdout, 4*1024, nil)
}

func (w *JSONLWriter) WriteStep(step *Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrTraceWriterClosed
	}
	return w.enc.Encode(step)
}

func (w *JSONLWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrTraceWriterClosed
	}
	return w.buf.Flush()
}

// Close flushes buffered steps and closes the destination if owned.
// Closing twice is a no-op.
func (w *JSONLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.buf.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadSteps decodes a JSON Lines trace.
func ReadSteps(r io.Reader) ([]*Step, error) {
	var steps []*Step
	dec := json.NewDecoder(r)
	for {
		var s Step
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			return steps, nil
		}
		if err != nil {
			return steps, fmt.Errorf("trace line %d: %w", len(steps)+1, err)
		}
		steps = append(steps, &s)
	}
}

// Collector keeps steps in memory.
type Collector struct {
	mu    sync.Mutex
	Steps []*Step
}

func (c *Collector) WriteStep(step *Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Steps = append(c.Steps, step)
	return nil
}

var (
	_ Tracer = (*JSONLWriter)(nil)
	_ Tracer = (*Collector)(nil)
)
