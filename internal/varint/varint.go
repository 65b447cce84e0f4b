// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package varint implements the variable-length integer encoding used by
// dynahist's wire format: 7 data bits per byte, little-endian septets,
// MSB-as-continuation-flag for unsigned values, and zig-zag encoding on
// top of that for signed values.
//
// The standard library's encoding/binary already implements this exact
// bit layout (binary.PutUvarint/Uvarint, binary.PutVarint/Varint), but its
// overflow guard is a single 10-byte budget tied to 64-bit values; dynahist
// needs a 5-byte budget for 32-bit fields and a 10-byte budget for 64-bit
// fields, so the read side is reimplemented here with an explicit byte
// count instead of pulling in a second varint dependency.
package varint

import "io"

const (
	maxBytes32 = 5
	maxBytes64 = 10
)

// WriteUvarint64 writes v to w using the unsigned varint encoding.
func WriteUvarint64(w io.ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

// WriteUvarint32 writes v to w using the unsigned varint encoding.
func WriteUvarint32(w io.ByteWriter, v uint32) error {
	return WriteUvarint64(w, uint64(v))
}

// WriteVarint64 zig-zag encodes v and writes it to w.
func WriteVarint64(w io.ByteWriter, v int64) error {
	return WriteUvarint64(w, zigzag64(v))
}

// WriteVarint32 zig-zag encodes v and writes it to w.
func WriteVarint32(w io.ByteWriter, v int32) error {
	return WriteUvarint32(w, zigzag32(v))
}

func zigzag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func unzigzag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// ReadUvarint64 reads an unsigned varint from r, failing with ErrOverrun
// if 10 bytes are read without a terminating byte. A short read returns
// the reader's own error (io.EOF at end of input).
func ReadUvarint64(r io.ByteReader) (uint64, error) {
	return readUvarint(r, maxBytes64)
}

// ReadUvarint32 reads an unsigned varint from r, limited to 5 continuation
// bytes (35 data bits: enough for any 32-bit value plus three bits of slack).
func ReadUvarint32(r io.ByteReader) (uint32, error) {
	v, err := readUvarint(r, maxBytes32)
	return uint32(v), err
}

// ReadVarint64 reads a zig-zag encoded signed varint limited to 10 bytes.
func ReadVarint64(r io.ByteReader) (int64, error) {
	v, err := readUvarint(r, maxBytes64)
	if err != nil {
		return 0, err
	}
	return unzigzag64(v), nil
}

// ReadVarint32 reads a zig-zag encoded signed varint limited to 5 bytes.
func ReadVarint32(r io.ByteReader) (int32, error) {
	v, err := readUvarint(r, maxBytes32)
	if err != nil {
		return 0, err
	}
	return unzigzag32(uint32(v)), nil
}

// ErrOverrun is returned when a varint runs past its maximum continuation
// byte budget without terminating.
var ErrOverrun = errOverrun{}

type errOverrun struct{}

func (errOverrun) Error() string { return "varint: continuation byte budget exceeded" }

func readUvarint(r io.ByteReader, maxBytes int) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrOverrun
}
