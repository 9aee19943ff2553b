package batch

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
)

// marshalJSONL marshals lines as one JSON object per line.
func marshalJSONL(lines []jsonlLine) ([]byte, error) {
	var buf bytes.Buffer
	for _, l := range lines {
		b, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

func readAll(r io.Reader) ([]byte, error) { return io.ReadAll(r) }

// countingMutex serializes increments to a shared failure counter from
// concurrent cancel goroutines.
type countingMutex struct{ mu sync.Mutex }

func (c *countingMutex) incr(n *int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*n++
}
