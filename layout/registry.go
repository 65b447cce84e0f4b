// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "sync"

// reservedSerialIDLimit reserves every serial id below this value for
// future built-in layouts; RegisterCodec refuses to register into the
// reserved range so third-party layouts and built-ins added later never
// collide with ids a caller picked for their own CustomLayout-adjacent
// extension.
const reservedSerialIDLimit = 98

// codec holds a layout's binary reader, keyed by the layout's serial id in
// the registry below; writing goes through the layout's own WritePayload.
type codec struct {
	read func(ByteReader) (Layout, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[uint64]codec{
		serialIDLogLinear:    {read: readLogLinearLayout},
		serialIDLogQuadratic: {read: readLogQuadraticLayout},
		serialIDLogOptimal:   {read: readLogOptimalLayout},
		serialIDOpenTelemetry: {read: readOpenTelemetryLayout},
		serialIDCustom:       {read: readCustomLayout},
	}
)

// RegisterCodec makes a third-party layout type decodable by ReadLayout
// under the given serial id. It is refused with ErrInvalidArgument if id
// falls in the built-in reserved range or is already registered. The
// registry map is replaced by an extended copy rather than mutated in
// place.
func RegisterCodec(id uint64, read func(ByteReader) (Layout, error)) error {
	if id < reservedSerialIDLimit {
		return errInvalidArgument("serial id %d is reserved for built-in layouts (ids below %d)", id, reservedSerialIDLimit)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		return errInvalidArgument("serial id %d is already registered", id)
	}
	next := make(map[uint64]codec, len(registry)+1)
	for k, v := range registry {
		next[k] = v
	}
	next[id] = codec{read: read}
	registry = next
	return nil
}

// WriteLayout writes l's serial id followed by its payload.
func WriteLayout(w ByteWriter, l Layout) error {
	if err := writeUint64(w, l.SerialID()); err != nil {
		return err
	}
	return l.WritePayload(w)
}

// ReadLayout reads a serial id and dispatches to the registered reader for
// it, failing with ErrCorruptData if no layout is registered under that
// id.
func ReadLayout(r ByteReader) (Layout, error) {
	id, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	registryMu.RLock()
	c, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, errCorruptData("no layout registered for serial id %d", id)
	}
	return c.read(r)
}

func writeUint64(w ByteWriter, v uint64) error {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r ByteReader) (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint64(b)
	}
	return v, nil
}
