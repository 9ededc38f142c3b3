// Package payload classifies raw MQTT payload bytes into one of four
// kinds (text, JSON, MessagePack, binary) and extracts a numeric value
// for graphing where one is meaningfully present. Classification happens
// exactly once per message and the result is cached on the Payload value
// itself, so repeated redraws never re-decode.
package payload

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind tags which variant of a Payload is populated.
type Kind int

const (
	// KindText is a valid UTF-8 string that does not parse as JSON.
	KindText Kind = iota
	// KindJSON is a valid UTF-8 string that parses as JSON; Value holds
	// the decoded tree.
	KindJSON
	// KindMessagePack is not valid UTF-8 but decodes as MessagePack.
	KindMessagePack
	// KindBinary is none of the above.
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindMessagePack:
		return "messagepack"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Payload is the memoized classification of one message body.
type Payload struct {
	Kind Kind

	// Text holds the decoded string for KindText.
	Text string
	// Value holds the decoded tree for KindJSON or KindMessagePack.
	Value any
	// Raw holds the (possibly truncated) bytes for KindBinary, and is
	// also kept for every kind so payload panels can offer a hex dump.
	Raw []byte

	// Truncated is set when the payload exceeded the configured size
	// limit and was cut before classification.
	Truncated bool
	// RawSize is the number of bytes actually received, before
	// truncation.
	RawSize int
}

// Decode classifies raw payload bytes, honoring an optional size limit
// (0 means unlimited). Bytes beyond the limit are dropped before
// classification and Truncated is set; RawSize always reflects the full
// received length.
func Decode(raw []byte, limit int) Payload {
	rawSize := len(raw)
	truncated := false
	buf := raw
	if limit > 0 && len(raw) > limit {
		buf = raw[:limit]
		truncated = true
	}

	p := classify(buf)
	p.Truncated = truncated
	p.RawSize = rawSize
	return p
}

func classify(buf []byte) Payload {
	if utf8.Valid(buf) {
		text := string(buf)
		var value any
		if json.Unmarshal(buf, &value) == nil {
			return Payload{Kind: KindJSON, Value: value, Raw: buf}
		}
		return Payload{Kind: KindText, Text: text, Raw: buf}
	}

	if value, ok := decodeMessagePack(buf); ok {
		return Payload{Kind: KindMessagePack, Value: value, Raw: buf}
	}
	return Payload{Kind: KindBinary, Raw: buf}
}

// decodeMessagePack attempts to decode buf as a single MessagePack value
// that accounts for the entire buffer. A decode that only consumes part
// of the buffer, or that fails outright, is not accepted as
// MessagePack — such bytes are classified as opaque binary instead.
func decodeMessagePack(buf []byte) (any, bool) {
	if len(buf) == 0 {
		return nil, false
	}
	reader := bytes.NewReader(buf)
	dec := msgpack.NewDecoder(reader)
	value, err := dec.DecodeInterface()
	if err != nil {
		return nil, false
	}
	if reader.Len() != 0 {
		// Trailing bytes: this wasn't a single MessagePack value, it's
		// coincidentally decodable binary.
		return nil, false
	}
	return value, true
}

// ExtractNumber returns a finite real number derived from the payload,
// for graphing, following the rules in spec §4.1. It returns false when
// no meaningful number is present, or when the candidate is NaN/±Inf.
func ExtractNumber(p Payload) (float64, bool) {
	switch p.Kind {
	case KindText:
		return parseLeadingFloat(p.Text)
	case KindJSON:
		switch v := p.Value.(type) {
		case float64:
			return finite(v)
		case string:
			return parseLeadingFloat(v)
		default:
			return 0, false
		}
	case KindMessagePack:
		switch v := p.Value.(type) {
		case float64:
			return finite(v)
		case float32:
			return finite(float64(v))
		case int64:
			return finite(float64(v))
		case uint64:
			return finite(float64(v))
		case int8, int16, int32, int, uint8, uint16, uint32, uint:
			return finite(toFloat64(v))
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint:
		return float64(n)
	}
	return 0
}

// parseLeadingFloat trims surrounding whitespace, truncates at the first
// remaining whitespace rune (so "20.0 °C" -> "20.0"), and parses the
// result as a float.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, isSpace); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
