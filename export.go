package semreg

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExportValues writes the binary values at the given paths to w in the
// textual format the external system's own editor produces: little-endian
// UTF-16 with a byte order mark, CRLF line ends, and hex-encoded payloads.
func ExportValues(st Store, paths []ValuePath, w io.Writer) error {
	var text strings.Builder
	text.WriteString("Windows Registry Editor Version 5.00\r\n\r\n")

	for _, path := range paths {
		data, err := ReadBinaryValue(st, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&text, "[%s]\r\n", path.KeyPath)
		fmt.Fprintf(&text, "\"%s\"=hex:", path.Name)
		for i, b := range data {
			if i > 0 {
				text.WriteByte(',')
			}
			fmt.Fprintf(&text, "%02x", b)
		}
		text.WriteString("\r\n\r\n")
	}

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	tw := transform.NewWriter(w, enc)
	if _, err := io.WriteString(tw, text.String()); err != nil {
		return err
	}
	return tw.Close()
}
