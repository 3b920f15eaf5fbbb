package semreg

import "testing"

func TestFormatTable(t *testing.T) {
	got := FormatTable([]TableRow{
		{"Active", "yes"},
		{"Transition Cause", "manual"},
		{},
		{"Warmth", "0.47"},
	})
	want := "Active ............ yes\n" +
		"Transition Cause .. manual\n" +
		"\n" +
		"Warmth ............ 0.47"
	deepEqual(t, got, want)
}

func TestFormatTableEdges(t *testing.T) {
	deepEqual(t, FormatTable([]TableRow{{"A", "b"}}), "A .. b")
	deepEqual(t, FormatTable(nil), "")
}
