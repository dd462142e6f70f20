package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Divergence describes the first step at which two traces differ.
type Divergence struct {
	Line  int    // 1-based
	Left  []byte // nil when the left trace ended first
	Right []byte // nil when the right trace ended first
	Delta string
}

func (d *Divergence) String() string {
	switch {
	case d.Left == nil:
		return fmt.Sprintf("line %d: left trace ended, right continues with %s", d.Line, d.Right)
	case d.Right == nil:
		return fmt.Sprintf("line %d: right trace ended, left continues with %s", d.Line, d.Left)
	}
	return fmt.Sprintf("line %d differs:\n%s", d.Line, d.Delta)
}

// Compare walks two JSON Lines traces in lockstep and returns the first
// diverging line, or nil when both are identical.
func Compare(a, b io.Reader) (*Divergence, error) {
	left := bufio.NewScanner(a)
	right := bufio.NewScanner(b)
	left.Buffer(make([]byte, 64*1024), 16*1024*1024)
	right.Buffer(make([]byte, 64*1024), 16*1024*1024)

	differ := gojsondiff.New()
	for line := 1; ; line++ {
		okL, okR := left.Scan(), right.Scan()
		if !okL || !okR {
			if err := left.Err(); err != nil {
				return nil, err
			}
			if err := right.Err(); err != nil {
				return nil, err
			}
			switch {
			case okL:
				return &Divergence{Line: line, Left: clone(left.Bytes())}, nil
			case okR:
				return &Divergence{Line: line, Right: clone(right.Bytes())}, nil
			}
			return nil, nil
		}
		l, r := left.Bytes(), right.Bytes()
		if bytes.Equal(l, r) {
			continue
		}
		delta, err := differ.Compare(l, r)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !delta.Modified() {
			continue
		}
		var leftObj map[string]interface{}
		if err := json.Unmarshal(l, &leftObj); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		text, err := formatter.NewAsciiFormatter(leftObj, formatter.AsciiFormatterConfig{ShowArrayIndex: true}).Format(delta)
		if err != nil {
			return nil, err
		}
		return &Divergence{Line: line, Left: clone(l), Right: clone(r), Delta: text}, nil
	}
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
