/*
Package semreg models a hierarchical registry of typed values the way the
external system keeps them, plus the binary codec for cloud-store value
envelopes.

We implement:

1. Paths, named roots with backslash-separated key paths and named values.

2. Stores, a persistent Bolt-backed backend and an in-memory one, both with
change notification on watched keys.

3. The envelope codec: prologue, VLQ integers and the cursor primitives the
feature codecs build their bodies from.

4. A monitor translating raw change events back into logical value ids.

# Technical Details

**Prologue.**
Every value starts with a prologue in one of three shapes: bodyless (2a 2a),
timestamp-only (26 followed by a VLQ timestamp), or full (2a 06, timestamp,
2a 2b 0e, VLQ body length, magic 43 42 01). The timestamp counts seconds
since the Unix epoch. Decoding tolerates shape deviations asymmetrically
depending on strictness; encoding always writes the full shape.

**VLQ integers.**
Unsigned integers use base-128 little-endian groups with the high bit as a
continuation flag. Signed integers are zigzag-folded first, so small
magnitudes of either sign stay short.

**Change tracking.**
Decoded properties are Tracked values remembering their original. Encoders
ask each tracker whether it de facto changed, which is what the write path's
consistency rules run on.

**Watching.**
Stores hash value contents with xxhash and fan events out per watched key
subtree. Slow consumers lose events rather than block writers.
*/
package semreg
