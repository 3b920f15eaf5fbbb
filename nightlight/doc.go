/*
Package nightlight reads and writes the blue light reduction feature's two
cloud-store values: state, holding whether night colors are in effect, and
settings, holding the schedule and the night color temperature.

The feature engine watches both values and reacts to writes immediately.
Other actors, the official settings page among them, write the same values
at any time, so the package enforces a read-mutate-write discipline: load a
NightLight, change properties, call Write once, all within
ExpirationTimeout. Raw codec users bypass that protection; writing values
in close succession can wedge the engine until the next log-off.

After log-on the engine ignores pure temperature changes until one of the
boolean states toggles once; Init performs an invisible preview pulse to
get that over with.
*/
package nightlight
