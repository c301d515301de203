package dataset

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// EncodeSnapshot writes rows as zstd-compressed msgpack.
func EncodeSnapshot(w io.Writer, rows []Report) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(rows); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return zw.Close()
}

// DecodeSnapshot reads rows written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) ([]Report, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var rows []Report
	if err := msgpack.NewDecoder(zr).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return rows, nil
}
