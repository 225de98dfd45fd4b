package nnue

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// magic tags a weight file so Load fails fast on a foreign blob instead of
// silently misinterpreting its bytes as quantized weights.
const magic = "KNNUE001"

// Load reads a quantized Network from a weight file in the fixed binary
// layout Save writes: an 8-byte magic tag followed by W1, B1, W2, B2 as
// flat little-endian arrays, matching spec.md §6's treatment of the
// weight blob as an externally supplied build artifact with an
// unspecified-but-fixed-by-convention wire layout.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nnue: opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var tag [len(magic)]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, fmt.Errorf("nnue: reading magic from %s: %w", path, err)
	}
	if string(tag[:]) != magic {
		return nil, fmt.Errorf("nnue: %s is not a recognized weight file", path)
	}

	n := &Network{}
	for f := 0; f < FeatureCount; f++ {
		if err := binary.Read(r, binary.LittleEndian, &n.W1[f]); err != nil {
			return nil, fmt.Errorf("nnue: reading W1 row %d from %s: %w", f, path, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.B1); err != nil {
		return nil, fmt.Errorf("nnue: reading B1 from %s: %w", path, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.W2); err != nil {
		return nil, fmt.Errorf("nnue: reading W2 from %s: %w", path, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.B2); err != nil {
		return nil, fmt.Errorf("nnue: reading B2 from %s: %w", path, err)
	}
	return n, nil
}

// Save writes n to path in the layout Load reads back.
func Save(path string, n *Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nnue: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(magic); err != nil {
		return fmt.Errorf("nnue: writing magic to %s: %w", path, err)
	}
	for f := 0; f < FeatureCount; f++ {
		if err := binary.Write(w, binary.LittleEndian, n.W1[f]); err != nil {
			return fmt.Errorf("nnue: writing W1 row %d to %s: %w", f, path, err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, n.B1); err != nil {
		return fmt.Errorf("nnue: writing B1 to %s: %w", path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.W2); err != nil {
		return fmt.Errorf("nnue: writing W2 to %s: %w", path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.B2); err != nil {
		return fmt.Errorf("nnue: writing B2 to %s: %w", path, err)
	}
	return w.Flush()
}
