package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// TokenSigner issues and checks the bearer tokens of the development server.
// A token is base64url(userID|expiry) "." base64url(hmac).
type TokenSigner struct {
	Secret []byte
	Now    func() time.Time
}

var (
	ErrBadToken   = errors.New("bad token")
	ErrBadSig     = errors.New("invalid signature")
	ErrExpired    = errors.New("expired")
	ErrBadPayload = errors.New("bad payload")
)

func (s TokenSigner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s TokenSigner) mac(msg []byte) []byte {
	m := hmac.New(sha256.New, s.Secret)
	m.Write(msg)
	return m.Sum(nil)
}

func (s TokenSigner) Sign(userID string, exp time.Time) string {
	msg := userID + "|" + strconv.FormatInt(exp.Unix(), 10)
	sig := base64.RawURLEncoding.EncodeToString(s.mac([]byte(msg)))
	payload := base64.RawURLEncoding.EncodeToString([]byte(msg))
	return payload + "." + sig
}

// Issue signs a token for userID valid for ttl.
func (s TokenSigner) Issue(userID string, ttl time.Duration) string {
	return s.Sign(userID, s.now().Add(ttl))
}

// decodeURLB64 tries raw (no padding) then padded
func decodeURLB64(v string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(v)
}

// Verify returns the user id carried by token.
func (s TokenSigner) Verify(token string) (string, error) {
	payload, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || payload == "" || sig == "" {
		return "", ErrBadToken
	}

	raw, err := decodeURLB64(payload)
	if err != nil {
		return "", ErrBadToken
	}
	got, err := decodeURLB64(sig)
	if err != nil {
		return "", ErrBadToken
	}
	if !hmac.Equal(got, s.mac(raw)) {
		return "", ErrBadSig
	}

	userID, ts, ok := strings.Cut(string(raw), "|")
	userID = strings.TrimSpace(userID)
	if !ok || userID == "" {
		return "", ErrBadPayload
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", ErrBadPayload
	}
	if s.now().After(time.Unix(unix, 0)) {
		return "", ErrExpired
	}
	return userID, nil
}
