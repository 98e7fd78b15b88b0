package coerce

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")

	hexPattern       = regexp.MustCompile(`^[0-9A-Fa-f]+$`)
	nonBase64Pattern = regexp.MustCompile(`[^A-Za-z0-9+/]`)
)

// pngBase64Prefix is how every base64-encoded PNG starts.
const pngBase64Prefix = "iVBOR"

const pngDataURLPrefix = "data:image/png;base64,"

// IsPNG reports whether b starts with the PNG signature.
func IsPNG(b []byte) bool {
	return len(b) >= len(pngSignature) && bytes.Equal(b[:len(pngSignature)], pngSignature)
}

// PNGDataURL turns an embedded QR image into a data URL. The cell may hold
// raw PNG bytes, a PNG data URL, base64 text or hex text. Decoded payloads must
// carry the PNG signature; anything else is absent.
func PNGDataURL(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case []byte:
		if IsPNG(t) {
			return encodePNG(t), true
		}
		return "", false
	}

	s, ok := Text(v)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(s, pngDataURLPrefix) {
		return s, true
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil && IsPNG(b) {
		return encodePNG(b), true
	}
	if b, ok := decodeHex(s); ok && IsPNG(b) {
		return encodePNG(b), true
	}
	if strings.HasPrefix(s, pngBase64Prefix) {
		if b, ok := decodeLenientBase64(s); ok && IsPNG(b) {
			return encodePNG(b), true
		}
	}
	return "", false
}

func encodePNG(b []byte) string {
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(b)
}

func decodeHex(s string) ([]byte, bool) {
	if len(s)%2 != 0 || !hexPattern.MatchString(s) {
		return nil, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

// decodeLenientBase64 drops characters outside the base64 alphabet and
// restores missing padding before decoding.
func decodeLenientBase64(s string) ([]byte, bool) {
	s = nonBase64Pattern.ReplaceAllString(s, "")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}
