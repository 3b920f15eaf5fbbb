package semreg

import (
	"math"
	"time"
)

// FILETIME counts hundred-nanosecond intervals since 1601-01-01 UTC.
const (
	hectonanosPerSec     = 10_000_000
	hectonanos1601To1970 = 116_444_736_000_000_000
)

// LatestFiletime is the highest FILETIME the external system is known to
// accept in the state value, the last second of the year 30827.
const LatestFiletime int64 = 0x7fff_35f4_f06c_58f0

// EpochSecs converts t to whole seconds since the Unix epoch. Times before
// 1970 clamp to zero, matching how the external system stamps its values.
func EpochSecs(t time.Time) uint32 {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	if secs > math.MaxUint32 {
		panic("time too far in the future for a 32-bit timestamp")
	}
	return uint32(secs)
}

// Filetime converts t to a FILETIME, clamping times before 1970 the same way
// EpochSecs does.
func Filetime(t time.Time) int64 {
	secs := t.Unix()
	nanos := int64(t.Nanosecond())
	if secs < 0 {
		secs, nanos = 0, 0
	}
	return secs*hectonanosPerSec + nanos/100 + hectonanos1601To1970
}

// FiletimeTime converts a FILETIME back to a time, keeping the sub-second
// precision a FILETIME carries.
func FiletimeTime(ft int64) time.Time {
	secs := (ft - hectonanos1601To1970) / hectonanosPerSec
	nanos := ft % hectonanosPerSec * 100
	return time.Unix(secs, nanos)
}

// NextEpochSecs chooses the timestamp to re-encode a value under when its
// previous prologue carried prev. The external system reverts writes whose
// timestamp does not exceed the stored one, and its own writer skips two
// seconds ahead when it writes twice within a second, so the successor must
// clear both.
func NextEpochSecs(prev uint32, now time.Time) uint32 {
	return max(EpochSecs(now), prev+2)
}
