package nightlight

import (
	"errors"
	"math"

	"github.com/enyium/semreg"
)

// bodyItem is one step of a schema body layout: parse consumes the step from
// a sequence, emit writes it back. Decoding and encoding walk the same item
// list, so each schema declares its byte layout exactly once.
type bodyItem struct {
	parse func(c *semreg.ByteSeq) error
	emit  func(c *semreg.ByteSeq)
}

func decodeBody(c *semreg.ByteSeq, items []bodyItem) error {
	for _, item := range items {
		if err := item.parse(c); err != nil {
			return err
		}
	}
	return nil
}

func encodeBody(c *semreg.ByteSeq, items []bodyItem) {
	for _, item := range items {
		item.emit(c)
	}
}

// optZero is an interspersed zero byte, tolerated missing in lenient mode.
func optZero(strictness semreg.Strictness) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if err := c.AssertZero(); err != nil && strictness.IsStrict() {
				return err
			}
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			c.PushZero()
		},
	}
}

// padding is the fixed zero block closing a body. The data must end with
// it; lenient mode tolerates deviations.
func padding(n int, strictness semreg.Strictness) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if err := c.AssertPadding(n); err != nil && strictness.IsStrict() {
				return err
			}
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			for i := 0; i < n; i++ {
				c.PushZero()
			}
		},
	}
}

// flagTracked maps the presence of marker onto one of two tracked values.
// The marker is emitted when the current value is the present one.
func flagTracked[T comparable](marker []byte, dst *semreg.Tracked[T], present, absent T) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if c.AssertConst(marker...) == nil {
				*dst = semreg.NewTracked(present)
			} else {
				*dst = semreg.NewTracked(absent)
			}
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			if dst.Current() == present {
				c.PushConst(marker...)
			}
		},
	}
}

// flagField is flagTracked for plain fields.
func flagField[T comparable](marker []byte, dst *T, present, absent T) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if c.AssertConst(marker...) == nil {
				*dst = present
			} else {
				*dst = absent
			}
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			if *dst == present {
				c.PushConst(marker...)
			}
		},
	}
}

// flagWithArg is a marker followed by one required argument byte. A present
// marker with a wrong argument is an error; lenient mode reads it as
// absence.
func flagWithArg(marker []byte, arg byte, strictness semreg.Strictness, dst *semreg.Tracked[bool]) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if c.AssertConst(marker...) != nil {
				*dst = semreg.NewTracked(false)
				return nil
			}
			if err := c.AssertConst(arg); err != nil {
				if strictness.IsStrict() {
					return err
				}
				*dst = semreg.NewTracked(false)
				return nil
			}
			*dst = semreg.NewTracked(true)
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			if dst.Current() {
				c.PushConst(marker...)
				c.PushConst(arg)
			}
		},
	}
}

// clockField is a required marker followed by a clock time. On a marker
// mismatch lenient mode substitutes midnight; every other failure propagates
// in both modes.
func clockField(marker []byte, strictness semreg.Strictness, get func() ClockTime, set func(ClockTime)) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			t, err := func() (ClockTime, error) {
				if err := c.AssertConst(marker...); err != nil {
					return ClockTime{}, err
				}
				return readClockTime(c)
			}()
			if err != nil {
				if strictness.IsStrict() || !errors.Is(err, semreg.ErrExpectedConst) {
					return err
				}
				t = ClockTime{}
			}
			set(t)
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			c.PushConst(marker...)
			pushClockTime(c, get())
		},
	}
}

// tempField is an optional zigzag-encoded color temperature. Zero stands
// for absence, meaning the external system's default.
func tempField(marker []byte, dst *semreg.Tracked[uint16]) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if c.AssertConst(marker...) != nil {
				*dst = semreg.NewTracked[uint16](0)
				return nil
			}
			v, err := c.ReadZigzagVlq64()
			if err != nil {
				return err
			}
			if v < 0 || v > math.MaxUint16 {
				return c.Err(semreg.ErrValueNotInRange)
			}
			*dst = semreg.NewTracked(uint16(v))
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			if temp := dst.Current(); temp != 0 {
				c.PushConst(marker...)
				c.PushZigzagVlq64(int64(temp))
			}
		},
	}
}

// filetimeField is a required marker followed by a VLQ FILETIME, bounded by
// the highest timestamp the external system accepts. Emit writes the
// supplied filetime instead of the decoded one, since the external system
// stamps every write with the write time.
func filetimeField(marker []byte, dst *int64, encodeFiletime int64) bodyItem {
	return bodyItem{
		parse: func(c *semreg.ByteSeq) error {
			if err := c.AssertConst(marker...); err != nil {
				return err
			}
			v, err := c.ReadVlq64()
			if err != nil {
				return err
			}
			if v > math.MaxInt64 || int64(v) > semreg.LatestFiletime {
				return c.Err(semreg.ErrValueNotInRange)
			}
			*dst = int64(v)
			return nil
		},
		emit: func(c *semreg.ByteSeq) {
			c.PushConst(marker...)
			c.PushVlq64(uint64(encodeFiletime))
		},
	}
}
