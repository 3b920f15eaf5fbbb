package semreg

import (
	"bytes"
	"encoding/binary"
)

// ByteSeq is a byte buffer with an independent read cursor, tailored to the
// binary layout of cloud-store registry values. Read methods advance the
// cursor only when they succeed, so callers can probe for an optional marker
// and continue from the same position when it is absent.
//
// The zero value is an empty sequence ready for use.
type ByteSeq struct {
	buf []byte
	off int
}

// NewByteSeq returns an empty sequence that holds capacity bytes before it
// needs to grow.
func NewByteSeq(capacity int) *ByteSeq {
	return &ByteSeq{buf: make([]byte, 0, capacity)}
}

// ByteSeqOf wraps data without copying it.
func ByteSeqOf(data []byte) *ByteSeq {
	return &ByteSeq{buf: data}
}

func (c *ByteSeq) Bytes() []byte { return c.buf }

func (c *ByteSeq) Len() int { return len(c.buf) }

func (c *ByteSeq) ReadIndex() int { return c.off }

func (c *ByteSeq) BytesLeft() int { return len(c.buf) - c.off }

func (c *ByteSeq) Exhausted() bool { return c.off >= len(c.buf) }

// Seek moves the read cursor to an absolute index and reports whether the
// index was within bounds. Seeking to Len is allowed.
func (c *ByteSeq) Seek(index int) bool {
	if index < 0 || index > len(c.buf) {
		return false
	}
	c.off = index
	return true
}

// SeekBy moves the read cursor relative to its current position.
func (c *ByteSeq) SeekBy(offset int) bool {
	return c.Seek(c.off + offset)
}

// Err wraps one of the parse sentinels with the buffer and the current read
// position.
func (c *ByteSeq) Err(sentinel error) error {
	return &ParseError{Data: c.buf, Off: c.off, Err: sentinel}
}

// AssertConst consumes the given bytes. It fails without moving the cursor
// when the buffer continues differently or ends early.
func (c *ByteSeq) AssertConst(want ...byte) error {
	if !bytes.HasPrefix(c.buf[c.off:], want) {
		return c.Err(ErrExpectedConst)
	}
	c.off += len(want)
	return nil
}

// AssertZero consumes a single zero byte.
func (c *ByteSeq) AssertZero() error {
	if c.off >= len(c.buf) || c.buf[c.off] != 0 {
		return c.Err(ErrExpectedZero)
	}
	c.off++
	return nil
}

// AssertPadding consumes n zero bytes and requires the buffer to end there.
func (c *ByteSeq) AssertPadding(n int) error {
	for i := 0; i < n; i++ {
		if err := c.AssertZero(); err != nil {
			return err
		}
	}
	return c.AssertExhausted()
}

// AssertExhausted fails when unread bytes remain.
func (c *ByteSeq) AssertExhausted() error {
	if !c.Exhausted() {
		return c.Err(ErrTrailingData)
	}
	return nil
}

func (c *ByteSeq) ReadUint8() (uint8, error) {
	if c.BytesLeft() < 1 {
		return 0, c.Err(ErrExpectedInt)
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

func (c *ByteSeq) ReadUint16() (uint16, error) {
	if c.BytesLeft() < 2 {
		return 0, c.Err(ErrExpectedInt)
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

func (c *ByteSeq) ReadUint32() (uint32, error) {
	if c.BytesLeft() < 4 {
		return 0, c.Err(ErrExpectedInt)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

func (c *ByteSeq) ReadUint64() (uint64, error) {
	if c.BytesLeft() < 8 {
		return 0, c.Err(ErrExpectedInt)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// ReadVlq64 consumes a base-128 variable-length quantity: seven data bits
// per byte starting with the least significant group, high bit set on every
// byte but the last. Quantities above 64 data bits fail; a tenth byte may
// only contribute its lowest bit.
func (c *ByteSeq) ReadVlq64() (uint64, error) {
	var v uint64
	off := c.off
	for shift := 0; ; shift += 7 {
		if off >= len(c.buf) {
			return 0, c.Err(ErrExpectedVlq)
		}
		b := c.buf[off]
		if shift == 63 && b&0xfe != 0 {
			return 0, c.Err(ErrExpectedVlq)
		}
		v += uint64(b&0x7f) << shift
		off++
		if b&0x80 == 0 {
			c.off = off
			return v, nil
		}
	}
}

// ReadZigzagVlq64 consumes a zigzag-folded signed quantity.
func (c *ByteSeq) ReadZigzagVlq64() (int64, error) {
	enc, err := c.ReadVlq64()
	if err != nil {
		return 0, err
	}
	v := int64(enc >> 1)
	if enc&1 != 0 {
		v = ^v
	}
	return v, nil
}

// PushConst appends the given bytes verbatim.
func (c *ByteSeq) PushConst(b ...byte) {
	c.buf = appendRaw(c.buf, b)
}

func (c *ByteSeq) PushZero() {
	c.buf = append(c.buf, 0)
}

func (c *ByteSeq) PushUint8(v uint8) {
	c.buf = append(c.buf, v)
}

func (c *ByteSeq) PushUint16(v uint16) {
	c.buf = binary.LittleEndian.AppendUint16(c.buf, v)
}

func (c *ByteSeq) PushUint32(v uint32) {
	c.buf = binary.LittleEndian.AppendUint32(c.buf, v)
}

func (c *ByteSeq) PushUint64(v uint64) {
	c.buf = binary.LittleEndian.AppendUint64(c.buf, v)
}

// PushVlq64 appends v in the format ReadVlq64 consumes.
func (c *ByteSeq) PushVlq64(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		c.buf = append(c.buf, b)
		if v == 0 {
			return
		}
	}
}

// PushZigzagVlq64 appends v zigzag-folded, so small magnitudes of either
// sign stay short.
func (c *ByteSeq) PushZigzagVlq64(v int64) {
	var enc uint64
	if v >= 0 {
		enc = uint64(v) << 1
	} else {
		enc = uint64(^v)<<1 | 1
	}
	c.PushVlq64(enc)
}

// Extend appends the contents of another buffer.
func (c *ByteSeq) Extend(data []byte) {
	c.buf = appendRaw(c.buf, data)
}

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendRaw(buf []byte, chunk []byte) []byte {
	n := len(chunk)
	off, buf := grow(buf, n)
	copy(buf[off:], chunk)
	return buf
}
