package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

// Frame layout: magic | blake3(payload) | lz4(json).
var magic = []byte("NOPS")

const sumSize = 32

// ErrCorrupt is returned for payloads that fail framing or checksum checks.
var ErrCorrupt = errors.New("save: corrupt payload")

// Encode marshals v to JSON, compresses it and frames it with a checksum.
func Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("save: cannot marshal: %w", err)
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("save: cannot compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("save: cannot compress: %w", err)
	}

	payload := buf.Bytes()
	sum := blake3.Sum256(payload)
	out := make([]byte, 0, len(magic)+sumSize+len(payload))
	out = append(out, magic...)
	out = append(out, sum[:]...)
	out = append(out, payload...)
	return out, nil
}

// Decode verifies and unpacks a framed payload into v.
func Decode(data []byte, v any) error {
	if len(data) < len(magic)+sumSize || !bytes.Equal(data[:len(magic)], magic) {
		return ErrCorrupt
	}
	sum := data[len(magic) : len(magic)+sumSize]
	payload := data[len(magic)+sumSize:]
	got := blake3.Sum256(payload)
	if !bytes.Equal(sum, got[:]) {
		return ErrCorrupt
	}

	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}
