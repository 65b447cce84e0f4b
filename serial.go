// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"bufio"
	"io"
	"math"

	"github.com/klauspost/compress/flate"

	"github.com/vdobler/dynahist/internal/varint"
	"github.com/vdobler/dynahist/layout"
)

// byteWriter and byteReader are the minimal interfaces the wire format
// needs; they coincide in shape with layout.ByteWriter/layout.ByteReader
// so a bufio.Writer/bufio.Reader built here can also be passed straight
// into layout.WriteLayout/layout.ReadLayout.
type byteWriter interface {
	io.Writer
	io.ByteWriter
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

func wrapWriter(w io.Writer) (byteWriter, func() error) {
	if bw, ok := w.(byteWriter); ok {
		return bw, func() error { return nil }
	}
	buffered := bufio.NewWriter(w)
	return buffered, buffered.Flush
}

func wrapReader(r io.Reader) byteReader {
	if br, ok := r.(byteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

func writeFloat64(w byteWriter, v float64) error {
	bits := math.Float64bits(v)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> uint(56-8*i))
	}
	_, err := w.Write(buf[:])
	return err
}

func readFloat64(r byteReader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits = bits<<8 | uint64(buf[i])
	}
	return math.Float64frombits(bits), nil
}

// setBits writes the low width bits of v, most-significant-bit first,
// starting at bit offset bitPos of buf (bit 0 is the MSB of buf[0]).
func setBits(buf []byte, bitPos int64, v uint64, width int) {
	for i := 0; i < width; i++ {
		bit := (v >> uint(width-1-i)) & 1
		if bit == 0 {
			continue
		}
		pos := bitPos + int64(i)
		buf[pos/8] |= 1 << uint(7-pos%8)
	}
}

func getBits(buf []byte, bitPos int64, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		pos := bitPos + int64(i)
		bit := (buf[pos/8] >> uint(7-pos%8)) & 1
		v = v<<1 | uint64(bit)
	}
	return v
}

type effectiveBin struct {
	idx   int32
	count int64
}

// classifyBin reports which of the three regions of l's domain binIndex
// falls into: -1 underflow, 0 regular, 1 overflow.
func classifyBin(l layout.Layout, binIndex int32) int {
	switch {
	case binIndex <= l.UnderflowBinIndex():
		return -1
	case binIndex >= l.OverflowBinIndex():
		return 1
	default:
		return 0
	}
}

// WriteHistogram encodes h in the compact self-describing binary format:
// a version byte, an info byte classifying the shape of what follows,
// min/max as big-endian f64, and the touched regular bin range packed at
// the narrowest width that fits every count in it. One occurrence each of
// the recorded min and max is folded out of the packed counts (since they
// are already carried exactly in the f64 fields) and restored on read.
//
// WriteHistogram does not write h's layout; use layout.WriteLayout
// alongside it, or WriteWithLayout/ReadWithLayout below, when the reader
// does not already know the layout out of band.
func WriteHistogram(w io.Writer, h Histogram) error {
	bw, flush := wrapWriter(w)
	if err := writeHistogram(bw, h); err != nil {
		return err
	}
	return flush()
}

func writeHistogram(w byteWriter, h Histogram) error {
	if err := w.WriteByte(0x00); err != nil {
		return err
	}
	n := h.TotalCount()
	if n == 0 {
		return w.WriteByte(0x00)
	}
	min, err := h.Min()
	if err != nil {
		return err
	}
	max, err := h.Max()
	if err != nil {
		return err
	}
	if n == 1 {
		if err := w.WriteByte(0x08); err != nil {
			return err
		}
		return writeFloat64(w, min)
	}

	l := h.Layout()
	minCat := classifyBin(l, l.MapToBinIndex(min))
	maxCat := classifyBin(l, l.MapToBinIndex(max))

	effUnderflow := h.UnderflowCount()
	effOverflow := h.OverflowCount()
	if minCat == -1 {
		effUnderflow--
	}
	if maxCat == -1 {
		effUnderflow--
	}
	if minCat == 1 {
		effOverflow--
	}
	if maxCat == 1 {
		effOverflow--
	}

	var bins []effectiveBin
	var effRegularTotal int64
	var maxCount int64
	if it, err := h.FirstNonEmptyBin(); err == nil {
		for {
			bin := it.Bin()
			if !bin.IsUnderflowBin() && !bin.IsOverflowBin() {
				c := bin.Count()
				if minCat == 0 && bin.BinIndex() == l.MapToBinIndex(min) {
					c--
				}
				if maxCat == 0 && bin.BinIndex() == l.MapToBinIndex(max) {
					c--
				}
				if c > 0 {
					bins = append(bins, effectiveBin{bin.BinIndex(), c})
					effRegularTotal += c
					if c > maxCount {
						maxCount = c
					}
				}
			}
			if nerr := it.Next(); nerr != nil {
				break
			}
		}
	}

	mode := determineRequiredMode(maxCount)
	clampCount := effRegularTotal
	if clampCount > 3 {
		clampCount = 3
	}

	info := byte(mode+1) | byte(clampCount<<4)
	if max != min {
		info |= 0x08
	}
	if effUnderflow >= 1 {
		info |= 0x40
	}
	if effOverflow >= 1 {
		info |= 0x80
	}
	if err := w.WriteByte(info); err != nil {
		return err
	}
	if err := writeFloat64(w, min); err != nil {
		return err
	}
	if max != min {
		if err := writeFloat64(w, max); err != nil {
			return err
		}
	}
	if effUnderflow >= 1 {
		if err := varint.WriteUvarint64(w, uint64(effUnderflow-1)); err != nil {
			return err
		}
	}
	if effOverflow >= 1 {
		if err := varint.WriteUvarint64(w, uint64(effOverflow-1)); err != nil {
			return err
		}
	}
	if len(bins) == 0 {
		return nil
	}
	first, last := bins[0].idx, bins[len(bins)-1].idx
	if err := varint.WriteVarint32(w, first); err != nil {
		return err
	}
	if clampCount < 2 {
		return nil
	}
	if err := varint.WriteVarint32(w, last); err != nil {
		return err
	}
	if clampCount < 3 {
		return nil
	}

	width := 1 << uint(mode)
	span := int64(last) - int64(first) + 1
	totalBytes := (span*int64(width) + 7) / 8
	buf := make([]byte, totalBytes)
	lookup := 0
	var bitPos int64
	for idx := first; idx <= last; idx++ {
		var c int64
		if lookup < len(bins) && bins[lookup].idx == idx {
			c = bins[lookup].count
			lookup++
		}
		setBits(buf, bitPos, uint64(c), width)
		bitPos += int64(width)
	}
	_, err = w.Write(buf)
	return err
}

// ReadHistogram decodes a histogram written by WriteHistogram into a new
// DynamicHistogram built over l. It fails with ErrVersionMismatch if the
// leading version byte is not 0, and ErrCorruptData if the info byte
// promises a mode outside 0-6.
func ReadHistogram(r io.Reader, l layout.Layout) (*DynamicHistogram, error) {
	return readHistogram(wrapReader(r), l)
}

func readHistogram(r byteReader, l layout.Layout) (*DynamicHistogram, error) {
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != 0x00 {
		return nil, newError(ErrVersionMismatch, "got version byte %d, want 0", version)
	}
	h := NewDynamicHistogram(l)

	info, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if info == 0x00 {
		return h, nil
	}
	modeField := int(info & 0x07)
	if modeField == 0 {
		if info != 0x08 {
			return nil, corruptDataf("info byte %#x has mode field 0 with unexpected flags", info)
		}
		v, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		if err := h.AddValue(v); err != nil {
			return nil, err
		}
		return h, nil
	}
	mode := modeField - 1
	if mode < 0 || mode > 6 {
		return nil, corruptDataf("info byte %#x promises out-of-range mode %d", info, mode)
	}
	hasMax := info&0x08 != 0
	clampCount := int64((info >> 4) & 0x03)
	hasUnderflow := info&0x40 != 0
	hasOverflow := info&0x80 != 0

	min, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	max := min
	if hasMax {
		max, err = readFloat64(r)
		if err != nil {
			return nil, err
		}
	}

	if hasUnderflow {
		v, err := varint.ReadUvarint64(r)
		if err != nil {
			return nil, wrapVarintError(err)
		}
		h.underflow += int64(v) + 1
		h.total += int64(v) + 1
	}
	if hasOverflow {
		v, err := varint.ReadUvarint64(r)
		if err != nil {
			return nil, wrapVarintError(err)
		}
		h.overflow += int64(v) + 1
		h.total += int64(v) + 1
	}

	if clampCount >= 1 {
		first, err := varint.ReadVarint32(r)
		if err != nil {
			return nil, wrapVarintError(err)
		}
		last := first
		if clampCount >= 2 {
			last, err = varint.ReadVarint32(r)
			if err != nil {
				return nil, wrapVarintError(err)
			}
		}
		switch {
		case clampCount == 1:
			h.addToBin(first, 1)
			h.total++
		case clampCount == 2:
			if first == last {
				h.addToBin(first, 2)
			} else {
				h.addToBin(first, 1)
				h.addToBin(last, 1)
			}
			h.total += 2
		default:
			width := 1 << uint(mode)
			span := int64(last) - int64(first) + 1
			totalBytes := (span*int64(width) + 7) / 8
			buf := make([]byte, totalBytes)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			var bitPos int64
			for idx := first; idx <= last; idx++ {
				c := int64(getBits(buf, bitPos, width))
				bitPos += int64(width)
				if c > 0 {
					h.addToBin(idx, c)
					h.total += c
				}
			}
		}
	}

	addOneOccurrence(h, l, l.MapToBinIndex(min))
	addOneOccurrence(h, l, l.MapToBinIndex(max))
	h.min, h.max, h.haveMinMax = min, max, true
	return h, nil
}

// addOneOccurrence restores one of the two sample counts folded out of
// the effective encoding (see writeHistogram) into whichever region of
// the layout binIndex falls into.
func addOneOccurrence(h *DynamicHistogram, l layout.Layout, binIndex int32) {
	switch classifyBin(l, binIndex) {
	case -1:
		h.underflow++
	case 1:
		h.overflow++
	default:
		h.addToBin(binIndex, 1)
	}
	h.total++
}

// WriteWithLayout writes l followed by h, so ReadWithLayout can
// reconstruct both without the layout being known out of band.
func WriteWithLayout(w io.Writer, l layout.Layout, h Histogram) error {
	bw, flush := wrapWriter(w)
	if err := layout.WriteLayout(bw, l); err != nil {
		return err
	}
	if err := writeHistogram(bw, h); err != nil {
		return err
	}
	return flush()
}

// ReadWithLayout reads a layout and histogram written by WriteWithLayout.
func ReadWithLayout(r io.Reader) (layout.Layout, *DynamicHistogram, error) {
	br := wrapReader(r)
	l, err := layout.ReadLayout(br)
	if err != nil {
		return nil, nil, err
	}
	h, err := readHistogram(br, l)
	if err != nil {
		return nil, nil, err
	}
	return l, h, nil
}

// WriteCompressed is WriteWithLayout with the output deflate-compressed,
// for callers persisting or transmitting many histograms where the
// repetitive packed-counter structure compresses well.
func WriteCompressed(w io.Writer, l layout.Layout, h Histogram) error {
	fw, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return err
	}
	bw, flush := wrapWriter(fw)
	if err := layout.WriteLayout(bw, l); err != nil {
		return err
	}
	if err := writeHistogram(bw, h); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	return fw.Close()
}

// ReadCompressed reads a layout and histogram written by WriteCompressed.
func ReadCompressed(r io.Reader) (layout.Layout, *DynamicHistogram, error) {
	fr := flate.NewReader(r)
	defer fr.Close()
	br := wrapReader(fr)
	l, err := layout.ReadLayout(br)
	if err != nil {
		return nil, nil, err
	}
	h, err := readHistogram(br, l)
	if err != nil {
		return nil, nil, err
	}
	return l, h, nil
}
