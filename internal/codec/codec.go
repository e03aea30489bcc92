// Package codec implements the reversible text transforms behind .balance and
// .causality files, together with their text envelope:
//
//	<TAG>
//	[<timestamp>]      enhanced variant only
//	<base64 payload>
//
// The transforms are obfuscation with a fixed, public key. They exist for
// file-format compatibility and provide no confidentiality.
//
// All functions are pure apart from reading the clock for the enhanced
// timestamp, and are safe for concurrent use.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrFormat reports an envelope whose tag line does not match the
	// requested variant, or that carries no known tag at all.
	ErrFormat = errors.New("invalid envelope format")

	// ErrDecryption reports any failure to decode an envelope. Format
	// errors wrap it too, so errors.Is(err, ErrDecryption) catches every
	// decode failure.
	ErrDecryption = errors.New("decryption failed")
)

// Variant is the closed set of envelope flavours.
type Variant int

const (
	Unknown Variant = iota
	Standard
	Enhanced
)

const (
	StandardTag = "BALANCE_ENCRYPTED_FILE_V1"
	EnhancedTag = "CAUSALITY_ENCRYPTED_FILE_V2"

	StandardExt = ".balance"
	EnhancedExt = ".causality"

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// now is swapped in tests to pin the enhanced timestamp line.
var now = time.Now

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Enhanced:
		return "enhanced"
	default:
		return "unknown"
	}
}

// Tag returns the first envelope line for v, or "" for Unknown.
func (v Variant) Tag() string {
	if s, ok := schemes[v]; ok {
		return s.tag
	}
	return ""
}

// Extension returns the file extension used for envelopes of v.
func (v Variant) Extension() string {
	switch v {
	case Standard:
		return StandardExt
	case Enhanced:
		return EnhancedExt
	default:
		return ""
	}
}

// VariantForExtension maps ".balance" / ".causality" (any case) to a Variant.
func VariantForExtension(ext string) Variant {
	switch strings.ToLower(ext) {
	case StandardExt:
		return Standard
	case EnhancedExt:
		return Enhanced
	default:
		return Unknown
	}
}

// ParseVariant accepts the names used on the command line.
func ParseVariant(name string) Variant {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "standard", "balance":
		return Standard
	case "enhanced", "causality":
		return Enhanced
	default:
		return Unknown
	}
}

// scheme is the per-variant part of the codec: a tag, whether a timestamp
// line follows it, and the byte transform applied between the two base64
// layers.
type scheme struct {
	tag   string
	stamp bool
	seal  func(src []byte) []byte
	open  func(src []byte) []byte
}

var schemes = map[Variant]scheme{
	Standard: {tag: StandardTag, seal: xorSeal, open: xorOpen},
	Enhanced: {tag: EnhancedTag, stamp: true, seal: shiftSeal, open: shiftOpen},
}

// Classify sniffs the tag line. The standard tag is checked first.
func Classify(text string) Variant {
	line := firstLine(text)
	switch line {
	case StandardTag:
		return Standard
	case EnhancedTag:
		return Enhanced
	default:
		return Unknown
	}
}

// IsEnvelope reports whether text starts with v's exact tag line.
func IsEnvelope(v Variant, text string) bool {
	return v != Unknown && Classify(text) == v
}

// Encode transforms UTF-8 text into a v envelope.
func Encode(v Variant, plaintext string) (string, error) {
	return EncodeBytes(v, []byte(plaintext))
}

// EncodeBytes transforms arbitrary bytes into a v envelope. This is the
// binary (image) path: the bytes are base64-encoded as they are, with no
// text transcoding.
func EncodeBytes(v Variant, data []byte) (string, error) {
	s, ok := schemes[v]
	if !ok {
		return "", fmt.Errorf("%w: cannot encode with %s variant", ErrFormat, v)
	}

	inner := base64.StdEncoding.EncodeToString(data)
	payload := base64.StdEncoding.EncodeToString(s.seal([]byte(inner)))

	var b strings.Builder
	b.Grow(len(s.tag) + len(payload) + 32)
	b.WriteString(s.tag)
	b.WriteByte('\n')
	if s.stamp {
		b.WriteString(now().UTC().Format(timestampLayout))
		b.WriteByte('\n')
	}
	b.WriteString(payload)
	return b.String(), nil
}

// Decode reverses Encode. The result must be valid UTF-8.
func Decode(v Variant, envelope string) (string, error) {
	b, err := DecodeBytes(v, envelope)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8 text", ErrDecryption)
	}
	return string(b), nil
}

// DecodeBytes reverses EncodeBytes without any text validation.
func DecodeBytes(v Variant, envelope string) ([]byte, error) {
	s, ok := schemes[v]
	if !ok {
		return nil, fmt.Errorf("%w: %w: cannot decode with %s variant", ErrDecryption, ErrFormat, v)
	}
	if firstLine(envelope) != s.tag {
		return nil, fmt.Errorf("%w: %w: missing %s header", ErrDecryption, ErrFormat, s.tag)
	}

	skip := 1
	if s.stamp {
		skip = 2
	}
	payload := dropLines(envelope, skip)

	outer, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt payload: %v", ErrDecryption, err)
	}
	inner, err := base64.StdEncoding.DecodeString(string(s.open(outer)))
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt payload: %v", ErrDecryption, err)
	}
	return inner, nil
}

// DecodeAuto classifies envelope and decodes it as text.
func DecodeAuto(envelope string) (string, Variant, error) {
	v := Classify(envelope)
	if v == Unknown {
		return "", Unknown, fmt.Errorf("%w: %w: no known header", ErrDecryption, ErrFormat)
	}
	s, err := Decode(v, envelope)
	return s, v, err
}

// DecodeAutoBytes classifies envelope and decodes it as raw bytes.
func DecodeAutoBytes(envelope string) ([]byte, Variant, error) {
	v := Classify(envelope)
	if v == Unknown {
		return nil, Unknown, fmt.Errorf("%w: %w: no known header", ErrDecryption, ErrFormat)
	}
	b, err := DecodeBytes(v, envelope)
	return b, v, err
}

// FileInfo is the header metadata of an envelope.
type FileInfo struct {
	Variant   Variant
	Timestamp string
	Valid     bool
}

// Info reads the header of an envelope without decoding it. Timestamp is
// only present for the enhanced variant and is returned unparsed.
func Info(envelope string) FileInfo {
	v := Classify(envelope)
	if v == Unknown {
		return FileInfo{}
	}
	info := FileInfo{Variant: v, Valid: true}
	if schemes[v].stamp {
		info.Timestamp = firstLine(dropLines(envelope, 1))
	}
	return info
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSuffix(line, "\r")
}

// dropLines returns text after its first n lines, or "" if it has fewer.
func dropLines(text string, n int) string {
	for i := 0; i < n; i++ {
		var ok bool
		_, text, ok = strings.Cut(text, "\n")
		if !ok {
			return ""
		}
	}
	return text
}
