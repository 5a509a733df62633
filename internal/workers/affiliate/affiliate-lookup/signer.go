// internal/workers/affiliate/affiliate-lookup/signer.go
package affiliatelookup

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SignedDateLayout is the gateway's yyMMdd'T'HHmmss'Z' timestamp, always UTC.
const SignedDateLayout = "060102T150405Z"

// SignedDate formats t for the signed-date field.
func SignedDate(t time.Time) string {
	return t.UTC().Format(SignedDateLayout)
}

// Signature is the hex HMAC-SHA256 of signedDate+method+path+rawQuery. The
// raw query carries no leading '?'.
func Signature(secretKey, signedDate, method, path, rawQuery string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(signedDate + method + path + rawQuery))
	return hex.EncodeToString(mac.Sum(nil))
}

// Authorization builds the CEA authorization header value.
func Authorization(accessKey, secretKey, method, path, rawQuery string, now time.Time) string {
	signedDate := SignedDate(now)
	sig := Signature(secretKey, signedDate, method, path, rawQuery)
	return fmt.Sprintf("CEA algorithm=HmacSHA256, access-key=%s, signed-date=%s, signature=%s",
		accessKey, signedDate, sig)
}

// EscapeKeyword percent-encodes a keyword as a URI component, spaces as %20.
// Unlike encodeURIComponent it also escapes !'()*, which the gateway and the
// search page both accept.
func EscapeKeyword(keyword string) string {
	return strings.ReplaceAll(url.QueryEscape(keyword), "+", "%20")
}

func searchQuery(keyword string, limit int) string {
	return fmt.Sprintf("keyword=%s&limit=%d", EscapeKeyword(keyword), limit)
}
