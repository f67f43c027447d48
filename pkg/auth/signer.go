// Package auth signs API requests with the HMAC scheme the Cyberwatch API expects.
package auth

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // Content-MD5 is part of the wire protocol, not a security boundary
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const (
	// Scheme prefixes the Authorization header value.
	Scheme = "CyberWatch"

	HeaderDate          = "Date"
	HeaderContentMD5    = "Content-MD5"
	HeaderAuthorization = "Authorization"
)

// Credentials is the immutable API key / secret key pair. Either part may be
// empty; the server then rejects the call.
type Credentials struct {
	apiKey    string
	secretKey string
}

// NewCredentials builds a credential pair.
func NewCredentials(apiKey, secretKey string) Credentials {
	return Credentials{apiKey: apiKey, secretKey: secretKey}
}

func (c Credentials) APIKey() string { return c.apiKey }

// Empty reports whether either key is missing.
func (c Credentials) Empty() bool { return c.apiKey == "" || c.secretKey == "" }

// Request carries the parts of an HTTP request that take part in the signature.
// Path is the request URI: the path plus its encoded query string.
type Request struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// Headers are the authentication headers attached to a signed request.
type Headers struct {
	Date          string
	ContentMD5    string
	Authorization string
}

// Map returns the headers keyed by their HTTP names.
func (h Headers) Map() map[string]string {
	return map[string]string{
		HeaderDate:          h.Date,
		HeaderContentMD5:    h.ContentMD5,
		HeaderAuthorization: h.Authorization,
	}
}

// Sign computes the authentication headers for req at the given instant.
// The same inputs always produce the same headers.
func Sign(req Request, creds Credentials, now time.Time) Headers {
	date := now.UTC().Format(http.TimeFormat)
	contentMD5 := ContentMD5(req.Body)
	signature := signature(creds.secretKey, CanonicalString(req, contentMD5, date))

	return Headers{
		Date:          date,
		ContentMD5:    contentMD5,
		Authorization: Scheme + " " + creds.apiKey + ":" + signature,
	}
}

// ContentMD5 returns base64(MD5(body)); a nil body hashes as empty.
func ContentMD5(body []byte) string {
	sum := md5.Sum(body) //nolint:gosec // protocol-mandated digest
	return base64.StdEncoding.EncodeToString(sum[:])
}

// CanonicalString is the text that gets signed:
// METHOD,content-type,content-md5,request-uri,date.
func CanonicalString(req Request, contentMD5, date string) string {
	return strings.Join([]string{
		strings.ToUpper(req.Method),
		req.ContentType,
		contentMD5,
		req.Path,
		date,
	}, ",")
}

func signature(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
