package semreg

import "math"

// MaxPrologueLen is the room Encode reserves for the envelope: the full
// shape with a five-byte timestamp quantity and a one-byte body length,
// which covers every value the codecs deal with.
const MaxPrologueLen = 22

// Prologue is the envelope in front of every cloud-store value. It occurs in
// exactly three shapes: bodyless without a timestamp, bodyless with a
// timestamp, and a timestamped header declaring the length of the body that
// follows it. The constructors cover these shapes; other field combinations
// do not occur in the wild.
//
// Encoded examples, body length declared as zero:
//
//	43 42 01 00 0a 02 01 00 2a 2a 00 00 00 00              no timestamp
//	43 42 01 00 0a 00 26 88 e2 be a9 06 00                 timestamp only
//	43 42 01 00 0a 02 01 00 2a 06 a0 b8 db aa 06 2a 2b     timestamp and
//	0e 00 43 42 01                                         body length
type Prologue struct {
	epochSecs    uint32
	numBodyBytes uint32
	hasEpoch     bool
	hasBody      bool
}

// BodylessPrologue returns the shape without a timestamp or body.
func BodylessPrologue() Prologue {
	return Prologue{}
}

// TimestampPrologue returns the bodyless shape carrying a timestamp, in
// seconds since the Unix epoch.
func TimestampPrologue(epochSecs uint32) Prologue {
	return Prologue{epochSecs: epochSecs, hasEpoch: true}
}

// BodyPrologue returns the shape announcing numBodyBytes of body after the
// envelope.
func BodyPrologue(epochSecs, numBodyBytes uint32) Prologue {
	return Prologue{epochSecs: epochSecs, numBodyBytes: numBodyBytes, hasEpoch: true, hasBody: true}
}

// EpochSecs returns the timestamp and whether the prologue carries one.
func (p Prologue) EpochSecs() (uint32, bool) {
	return p.epochSecs, p.hasEpoch
}

// NumBodyBytes returns the declared body length and whether the prologue
// carries one.
func (p Prologue) NumBodyBytes() (uint32, bool) {
	return p.numBodyBytes, p.hasBody
}

// ReadPrologue consumes a prologue from c, leaving the cursor on the first
// body byte. In strict mode the declared body length must match the bytes
// actually left. Lenient mode tolerates missing interspersed zero bytes, a
// missing trailing magic and, for the bodyless shapes, truncated padding.
func ReadPrologue(c *ByteSeq, strictness Strictness) (Prologue, error) {
	var none Prologue

	if err := c.AssertConst(0x43, 0x42, 0x01); err != nil {
		return none, err
	}
	if err := c.AssertZero(); err != nil && strictness.IsStrict() {
		return none, err
	}
	if err := c.AssertConst(0x0a); err != nil {
		return none, err
	}
	hasMark := c.AssertConst(0x02, 0x01) == nil
	if err := c.AssertZero(); err != nil && strictness.IsStrict() {
		return none, err
	}

	// The three shapes diverge here: 2a 2a announces the bodyless shape,
	// 26 the timestamp-only one and 2a 06 the full header.
	bodyless := c.AssertConst(0x2a, 0x2a) == nil
	timestampOnly := !bodyless && c.AssertConst(0x26) == nil
	if !bodyless && !timestampOnly {
		if err := c.AssertConst(0x2a, 0x06); err != nil {
			return none, err
		}
	}

	var epochSecs uint32
	if !bodyless {
		v, err := c.ReadVlq64()
		if err != nil {
			return none, err
		}
		epochSecs = uint32(v)
	}

	switch {
	case bodyless:
		// The 02 01 mark accompanies every shape but the timestamp-only one.
		if strictness.IsStrict() && !hasMark {
			return none, c.Err(ErrInconsistentData)
		}
		if err := c.AssertPadding(4); err != nil && strictness.IsStrict() {
			return none, err
		}
		return BodylessPrologue(), nil

	case timestampOnly:
		if strictness.IsStrict() && hasMark {
			return none, c.Err(ErrInconsistentData)
		}
		if err := c.AssertPadding(1); err != nil && strictness.IsStrict() {
			return none, err
		}
		return TimestampPrologue(epochSecs), nil

	default:
		if strictness.IsStrict() && !hasMark {
			return none, c.Err(ErrInconsistentData)
		}
		if err := c.AssertConst(0x2a, 0x2b); err != nil {
			return none, err
		}
		if err := c.AssertConst(0x0e); err != nil {
			return none, err
		}
		numBodyBytes, err := c.ReadVlq64()
		if err != nil {
			return none, err
		}
		if numBodyBytes > math.MaxUint32 {
			return none, c.Err(ErrValueNotInRange)
		}
		if err := c.AssertConst(0x43, 0x42, 0x01); err != nil && strictness.IsStrict() {
			return none, err
		}
		if strictness.IsStrict() && c.BytesLeft() != int(numBodyBytes) {
			return none, c.Err(ErrInconsistentData)
		}
		return BodyPrologue(epochSecs, uint32(numBodyBytes)), nil
	}
}

// AppendTo writes the encoded prologue to c.
func (p Prologue) AppendTo(c *ByteSeq) {
	c.PushConst(0x43, 0x42, 0x01)
	c.PushZero()
	c.PushConst(0x0a)
	if !p.hasEpoch || p.hasBody {
		c.PushConst(0x02, 0x01)
	}
	c.PushZero()

	if !p.hasEpoch {
		c.PushConst(0x2a, 0x2a)
		for i := 0; i < 4; i++ {
			c.PushZero()
		}
		return
	}
	if p.hasBody {
		c.PushConst(0x2a, 0x06)
	} else {
		c.PushConst(0x26)
	}
	c.PushVlq64(uint64(p.epochSecs))
	if p.hasBody {
		c.PushConst(0x2a, 0x2b)
		c.PushConst(0x0e)
		c.PushVlq64(uint64(p.numBodyBytes))
		c.PushConst(0x43, 0x42, 0x01)
	} else {
		c.PushZero()
	}
}

// Encode returns a fresh sequence holding the prologue, with room reserved
// for extraCapacity bytes of body.
func (p Prologue) Encode(extraCapacity int) *ByteSeq {
	c := NewByteSeq(MaxPrologueLen + extraCapacity)
	p.AppendTo(c)
	return c
}
