// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"encoding/binary"
	"math"
)

// writeFloat64 writes v as 8 big-endian bytes.
func writeFloat64(w ByteWriter, v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

// readFloat64 reads 8 big-endian bytes and decodes them as a float64.
func readFloat64(r ByteReader) (float64, error) {
	var buf [8]byte
	if _, err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

// readFull reads exactly len(buf) bytes from r, byte by byte, since
// ByteReader only guarantees io.ByteReader semantics for callers that
// don't also have a bulk Read (e.g. bufio.Reader wrapping a non-seekable
// stream works either way, but this keeps the contract minimal).
func readFull(r ByteReader, buf []byte) (int, error) {
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return i, err
		}
		buf[i] = b
	}
	return len(buf), nil
}
