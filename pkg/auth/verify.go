package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedAuthorization = errors.New("malformed authorization header")
	ErrUnknownAPIKey          = errors.New("unknown api key")
	ErrContentMismatch        = errors.New("content-md5 does not match body")
	ErrBadSignature           = errors.New("signature mismatch")
)

// SecretLookup resolves the secret key registered for an API key.
type SecretLookup func(apiKey string) (secret string, ok bool)

// Verify checks a signed request the way the server does. It returns the API
// key the request was signed with.
func Verify(req Request, h Headers, lookup SecretLookup) (string, error) {
	apiKey, sig, err := parseAuthorization(h.Authorization)
	if err != nil {
		return "", err
	}
	secret, ok := lookup(apiKey)
	if !ok {
		return apiKey, fmt.Errorf("%w: %q", ErrUnknownAPIKey, apiKey)
	}
	if h.ContentMD5 != ContentMD5(req.Body) {
		return apiKey, ErrContentMismatch
	}

	want := signature(secret, CanonicalString(req, h.ContentMD5, h.Date))
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return apiKey, ErrBadSignature
	}
	return apiKey, nil
}

func parseAuthorization(value string) (apiKey, sig string, err error) {
	rest, ok := strings.CutPrefix(value, Scheme+" ")
	if !ok {
		return "", "", fmt.Errorf("%w: missing %q scheme", ErrMalformedAuthorization, Scheme)
	}
	apiKey, sig, ok = strings.Cut(rest, ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing signature separator", ErrMalformedAuthorization)
	}
	return apiKey, sig, nil
}
