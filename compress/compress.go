// Package compress applies transparent gzip to payloads headed for the
// distributed tier. Small payloads pass through untouched; the caller
// records which path was taken and hands the flag back on read.
package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// DefaultMinSize is the encoded size at which compression kicks in. Below
// it the gzip header overhead outweighs the savings.
const DefaultMinSize = 1024

// Codec decides per payload whether to gzip. MinSize <= 0 means
// DefaultMinSize; Disabled turns compression off entirely.
type Codec struct {
	MinSize  int
	Disabled bool
}

func (c Codec) threshold() int {
	if c.MinSize <= 0 {
		return DefaultMinSize
	}
	return c.MinSize
}

// Encode returns the payload to store and whether it was compressed.
// Compression is best-effort: a payload that cannot be compressed is stored
// uncompressed rather than dropped.
func (c Codec) Encode(payload []byte) ([]byte, bool) {
	if c.Disabled || len(payload) < c.threshold() {
		return payload, false
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		_ = zw.Close()
		return payload, false
	}
	if err := zw.Close(); err != nil {
		return payload, false
	}
	return buf.Bytes(), true
}

// Decode reverses Encode. A corrupt compressed payload yields an error the
// caller treats as a cache miss, never a fault.
func (c Codec) Decode(payload []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return payload, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("compress: open gzip payload: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("compress: inflate payload: %w", err)
	}
	return out, nil
}
