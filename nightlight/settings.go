package nightlight

import (
	"time"

	"github.com/enyium/semreg"
)

// ScheduleType selects how the feature's schedule determines the nightly
// window.
type ScheduleType int

const (
	// ScheduleSunsetToSunrise follows the sun at the device's location.
	ScheduleSunsetToSunrise ScheduleType = iota
	// ScheduleExplicit uses fixed clock times. Also the effective fallback
	// when location consent is missing.
	ScheduleExplicit
)

func (t ScheduleType) String() string {
	if t == ScheduleExplicit {
		return "explicit"
	}
	return "sunsetToSunrise"
}

// RawSettings mirrors the settings value byte for byte. Most callers want
// the NightLight facade instead.
//
// NightColorTemp uses zero for "no explicit temperature stored", which makes
// the external system fall back to its built-in default. SunsetToSunrise
// stays zero when the value carried no sunset pair; the wire format cannot
// distinguish a missing pair from midnight-to-midnight.
type RawSettings struct {
	PrologueEpochSecs  uint32
	ScheduleActive     semreg.Tracked[bool]
	ScheduleType       semreg.Tracked[ScheduleType]
	ScheduledNight     semreg.Tracked[ClockTimeFrame]
	NightColorTemp     semreg.Tracked[uint16]
	SunsetToSunrise    ClockTimeFrame
	NightPreviewActive semreg.Tracked[bool]
}

const maxSettingsBodyLen = 45

func (s *RawSettings) bodyLayout(strictness semreg.Strictness) []bodyItem {
	return []bodyItem{
		optZero(strictness),
		flagTracked([]byte{0x02, 0x01}, &s.ScheduleActive, true, false),
		flagTracked([]byte{0xc2, 0x0a, 0x00}, &s.ScheduleType, ScheduleExplicit, ScheduleSunsetToSunrise),
		clockField([]byte{0xca, 0x14}, strictness,
			func() ClockTime { return s.ScheduledNight.Current().Start },
			func(t ClockTime) { s.setNightPart(t, false) }),
		optZero(strictness),
		clockField([]byte{0xca, 0x1e}, strictness,
			func() ClockTime { return s.ScheduledNight.Current().End },
			func(t ClockTime) { s.setNightPart(t, true) }),
		optZero(strictness),
		tempField([]byte{0xcf, 0x28}, &s.NightColorTemp),
		clockField([]byte{0xca, 0x32}, strictness,
			func() ClockTime { return s.SunsetToSunrise.Start },
			func(t ClockTime) { s.SunsetToSunrise.Start = t }),
		optZero(strictness),
		clockField([]byte{0xca, 0x3c}, strictness,
			func() ClockTime { return s.SunsetToSunrise.End },
			func(t ClockTime) { s.SunsetToSunrise.End = t }),
		optZero(strictness),
		flagWithArg([]byte{0xc2, 0x46}, 0x01, strictness, &s.NightPreviewActive),
		padding(4, strictness),
	}
}

// setNightPart rebuilds the scheduled-night tracker around one decoded half
// of the frame. Decoding never runs after Set, so Original is the value so
// far.
func (s *RawSettings) setNightPart(t ClockTime, end bool) {
	f := s.ScheduledNight.Original()
	if end {
		f.End = t
	} else {
		f.Start = t
	}
	s.ScheduledNight = semreg.NewTracked(f)
}

// DecodeSettings parses a settings value. The prologue must carry a
// timestamp in either mode; a missing body length is tolerated leniently.
func DecodeSettings(data []byte, strictness semreg.Strictness) (*RawSettings, error) {
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

	s := &RawSettings{PrologueEpochSecs: epochSecs}
	if err := decodeBody(c, s.bodyLayout(strictness)); err != nil {
		return nil, err
	}
	return s, nil
}

// FallbackSettings returns the settings assumed when the value is
// unreadable: schedule off, sun-based, 21:00 to 7:00, default temperature.
func FallbackSettings(now time.Time) *RawSettings {
	return &RawSettings{
		PrologueEpochSecs:  semreg.EpochSecs(now),
		ScheduleActive:     semreg.NewTracked(false),
		ScheduleType:       semreg.NewTracked(ScheduleSunsetToSunrise),
		ScheduledNight:     semreg.NewTracked(ClockTimeFrame{Start: ClockTime{hour: 21}, End: ClockTime{hour: 7}}),
		NightColorTemp:     semreg.NewTracked(DefaultNightColorTemp),
		NightPreviewActive: semreg.NewTracked(false),
	}
}

// Encode serializes the settings for writing at the given time.
func (s *RawSettings) Encode(now time.Time) []byte {
	body := semreg.NewByteSeq(maxSettingsBodyLen)
	encodeBody(body, s.bodyLayout(semreg.Strict))

	c := semreg.BodyPrologue(
		semreg.NextEpochSecs(s.PrologueEpochSecs, now),
		uint32(body.Len()),
	).Encode(maxSettingsBodyLen)
	c.Extend(body.Bytes())
	return c.Bytes()
}
