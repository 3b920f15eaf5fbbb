package semreg

import (
	"testing"
	"time"
)

func TestEpochSecs(t *testing.T) {
	deepEqual(t, EpochSecs(time.Unix(1700191264, 999_999_999)), uint32(1700191264))
	deepEqual(t, EpochSecs(time.Unix(0, 0)), uint32(0))
	// pre-1970 clamps to zero
	deepEqual(t, EpochSecs(time.Unix(-5, 0)), uint32(0))
}

func TestFiletime(t *testing.T) {
	// 1601-01-01 is 11644473600 seconds before the Unix epoch
	deepEqual(t, Filetime(time.Unix(0, 0)), int64(116_444_736_000_000_000))
	deepEqual(t, Filetime(time.Unix(1, 0)), int64(116_444_736_010_000_000))
	deepEqual(t, Filetime(time.Unix(1, 150)), int64(116_444_736_010_000_001))
	deepEqual(t, Filetime(time.Unix(-5, 0)), int64(116_444_736_000_000_000))
}

func TestFiletimeTime(t *testing.T) {
	deepEqual(t, FiletimeTime(116_444_736_000_000_000).Unix(), int64(0))

	at := time.Unix(1700191264, 123_456_700)
	deepEqual(t, FiletimeTime(Filetime(at)).UnixNano(), at.UnixNano())

	// the highest stamp the external system accepts, the last moment of
	// the year 30827
	deepEqual(t, FiletimeTime(LatestFiletime).UTC().Year(), 30827)
}

func TestNextEpochSecs(t *testing.T) {
	now := time.Unix(1700191264, 0)
	deepEqual(t, NextEpochSecs(1600000000, now), uint32(1700191264))
	deepEqual(t, NextEpochSecs(1700191263, now), uint32(1700191265))
	deepEqual(t, NextEpochSecs(1700191264, now), uint32(1700191266))
	deepEqual(t, NextEpochSecs(1800000000, now), uint32(1800000002))
}
