package nightlight

import (
	"time"

	"github.com/enyium/semreg"
)

// TransitionCause says which actor last toggled the feature.
type TransitionCause int

const (
	CauseManual TransitionCause = iota
	CauseSchedule
)

func (c TransitionCause) String() string {
	if c == CauseSchedule {
		return "schedule"
	}
	return "manual"
}

// RawState mirrors the state value byte for byte. Most callers want the
// NightLight facade instead; raw writes in close succession can wedge the
// feature until the next log-off.
type RawState struct {
	PrologueEpochSecs uint32
	Active            semreg.Tracked[bool]
	TransitionCause   TransitionCause
	ModifiedFiletime  int64
}

const maxStateBodyLen = 21

func (s *RawState) bodyLayout(strictness semreg.Strictness, encodeFiletime int64) []bodyItem {
	return []bodyItem{
		optZero(strictness),
		flagTracked([]byte{0x10, 0x00}, &s.Active, true, false),
		flagField([]byte{0xd0, 0x0a, 0x02}, &s.TransitionCause, CauseManual, CauseSchedule),
		filetimeField([]byte{0xc6, 0x14}, &s.ModifiedFiletime, encodeFiletime),
		padding(4, strictness),
	}
}

// DecodeState parses a state value. The prologue must carry a timestamp in
// either mode; a missing body length is tolerated leniently.
func DecodeState(data []byte, strictness semreg.Strictness) (*RawState, error) {
	c := semreg.ByteSeqOf(data)

	prologue, err := semreg.ReadPrologue(c, strictness)
	if err != nil {
		return nil, err
	}
	epochSecs, hasEpoch := prologue.EpochSecs()
	if !hasEpoch {
		return nil, c.Err(semreg.ErrInconsistentData)
	}
	if _, hasBody := prologue.NumBodyBytes(); !hasBody && strictness.IsStrict() {
		return nil, c.Err(semreg.ErrInconsistentData)
	}

	s := &RawState{PrologueEpochSecs: epochSecs}
	if err := decodeBody(c, s.bodyLayout(strictness, 0)); err != nil {
		return nil, err
	}
	return s, nil
}

// FallbackState returns the state assumed when the value is unreadable.
func FallbackState(now time.Time) *RawState {
	return &RawState{
		PrologueEpochSecs: semreg.EpochSecs(now),
		Active:            semreg.NewTracked(false),
		TransitionCause:   CauseManual,
		ModifiedFiletime:  semreg.Filetime(now),
	}
}

// Encode serializes the state for writing at the given time. The modified
// timestamp and the prologue timestamp both derive from now, the way the
// external system stamps its own writes.
func (s *RawState) Encode(now time.Time) []byte {
	body := semreg.NewByteSeq(maxStateBodyLen)
	encodeBody(body, s.bodyLayout(semreg.Strict, semreg.Filetime(now)))

	c := semreg.BodyPrologue(
		semreg.NextEpochSecs(s.PrologueEpochSecs, now),
		uint32(body.Len()),
	).Encode(maxStateBodyLen)
	c.Extend(body.Bytes())
	return c.Bytes()
}
