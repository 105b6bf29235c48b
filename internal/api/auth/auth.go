// Package auth checks the fixed login pair and issues signed session tokens.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	apperrors "mom-generator/internal/app/errors"
)

// DefaultTTL is used when the configured lifetime is zero
const DefaultTTL = 12 * time.Hour

// Config is the login pair and signing settings
type Config struct {
	Username string
	Password string
	Secret   string
	TTL      time.Duration
}

// Token is an issued session token
type Token struct {
	Value     string    `json:"token"`
	User      string    `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service validates credentials against one configured pair.
// Tokens have the form <base64url user>.<unix expiry>.<hex hmac-sha256>.
type Service struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a service. An empty secret is replaced by a random one,
// so tokens do not survive a restart.
func NewService(cfg Config) *Service {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("auth: cannot read random secret: " + err.Error())
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		username: cfg.Username,
		password: cfg.Password,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL is the token lifetime
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Login checks the trimmed username and password and issues a token
func (s *Service) Login(username, password string) (*Token, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.Issue(username), nil
}

// Issue signs a token for user
func (s *Service) Issue(user string) *Token {
	expires := s.now().Add(s.ttl).Truncate(time.Second)
	encodedUser := base64.RawURLEncoding.EncodeToString([]byte(user))
	payload := encodedUser + "." + strconv.FormatInt(expires.Unix(), 10)
	return &Token{
		Value:     payload + "." + s.sign(payload),
		User:      user,
		ExpiresAt: expires,
	}
}

// Validate returns the user of a well-signed, unexpired token
func (s *Service) Validate(value string) (string, error) {
	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return "", apperrors.Mark(apperrors.ErrInvalidToken, "malformed token")
	}

	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(s.sign(payload))) {
		return "", apperrors.Mark(apperrors.ErrInvalidToken, "bad signature")
	}

	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", apperrors.Mark(apperrors.ErrInvalidToken, "bad expiry")
	}
	if !s.now().Before(time.Unix(expiry, 0)) {
		return "", apperrors.Mark(apperrors.ErrInvalidToken, "token expired")
	}

	user, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", apperrors.Mark(apperrors.ErrInvalidToken, "bad user")
	}
	return string(user), nil
}

func (s *Service) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
