package preferences

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// CookieName is the client-side cached copy of the preference set.
// It outlives the session cookie so anonymous preferences survive
// a session boundary.
const CookieName = "preferences"

// how long the client-side copy is kept
const cookieMaxAge = 30 * 24 * time.Hour

// EncodeCookie serializes a preference set for cookie transport:
// JSON → gzip → base64. DecodeCookie reverses it exactly.
func EncodeCookie(p Preferences) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("preferences: failed to marshal: %w", err)
	}

	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("preferences: failed to compress: %w", err)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("preferences: failed to compress: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeCookie restores a preference set from its cookie encoding
func DecodeCookie(value string) (Preferences, error) {
	var p Preferences

	compressed, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return p, fmt.Errorf("preferences: invalid base64: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return p, fmt.Errorf("preferences: invalid gzip stream: %w", err)
	}
	defer zr.Close() //nolint:errcheck // read-side close

	raw, err := io.ReadAll(zr)
	if err != nil {
		return p, fmt.Errorf("preferences: failed to decompress: %w", err)
	}

	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("preferences: failed to unmarshal: %w", err)
	}

	return p, nil
}

// SetCookie writes the long-lived client-side copy of the preference set
func SetCookie(w http.ResponseWriter, p Preferences) error {
	encoded, err := EncodeCookie(p)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENVIRONMENT") == "production",
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}

// FromCookie reads the client-side copy from a request, if present
func FromCookie(r *http.Request) (Preferences, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Preferences{}, false
	}

	p, err := DecodeCookie(cookie.Value)
	if err != nil {
		return Preferences{}, false
	}

	return p, true
}
