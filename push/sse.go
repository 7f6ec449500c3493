package push

import (
	"bufio"
	"io"
	"strings"
)

// maxFrameBytes bounds a single event frame on the stream.
const maxFrameBytes = 1 << 20

// scanStream parses text/event-stream framing and invokes deliver for every
// complete frame with a payload. deliver returning false stops the scan.
//
// Only the event and data fields matter to this protocol; data lines of one
// frame are joined with newlines, id/retry fields and comments are skipped.
func scanStream(r io.Reader, deliver func(name string, data []byte) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxFrameBytes)

	var name string
	var data []byte

	flush := func() bool {
		if len(data) == 0 {
			name = ""
			return true
		}
		ok := deliver(name, data)
		name = ""
		data = nil
		return ok
	}

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case line == "":
			if !flush() {
				return nil
			}
		case strings.HasPrefix(line, ":"):
			// Comment / keep-alive.
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			payload := strings.TrimPrefix(line, "data:")
			payload = strings.TrimPrefix(payload, " ")
			if len(data) > 0 {
				data = append(data, '\n')
			}
			data = append(data, payload...)
		default:
			// id:, retry:, unknown fields.
		}
	}

	// A final frame without a trailing blank line still counts.
	flush()
	return sc.Err()
}
