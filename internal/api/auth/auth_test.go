package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mom-generator/internal/app/errors"
)

func newTestService(now time.Time) *Service {
	s := NewService(Config{Username: "admin", Password: "admin", Secret: "s3cret", TTL: time.Hour})
	s.now = func() time.Time { return now }
	return s
}

func TestLogin(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	s := newTestService(now)

	tests := []struct {
		name     string
		username string
		password string
		ok       bool
	}{
		{"valid", "admin", "admin", true},
		{"trimmed", "  admin ", " admin\n", true},
		{"wrong password", "admin", "nimda", false},
		{"wrong user", "root", "admin", false},
		{"empty", "", "", false},
		{"case sensitive", "Admin", "admin", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := s.Login(tt.username, tt.password)
			if !tt.ok {
				assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", token.User)
			assert.Equal(t, now.Add(time.Hour), token.ExpiresAt)
			assert.Equal(t, 3, len(strings.Split(token.Value, ".")))
		})
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	s := newTestService(now)
	token := s.Issue("admin")

	user, err := s.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)

	s.now = func() time.Time { return now.Add(time.Hour) }
	_, err = s.Validate(token.Value)
	assert.ErrorContains(t, err, "token expired")
}

func TestValidate_Rejects(t *testing.T) {
	s := newTestService(time.Now())
	token := s.Issue("admin").Value
	parts := strings.Split(token, ".")

	other := NewService(Config{Username: "admin", Password: "admin", Secret: "different"})

	tests := map[string]string{
		"empty":           "",
		"two parts":       parts[0] + "." + parts[1],
		"tampered expiry": parts[0] + ".9999999999." + parts[2],
		"tampered user":   "cm9vdA." + parts[1] + "." + parts[2],
		"bad signature":   parts[0] + "." + parts[1] + ".deadbeef",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Validate(value)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidToken))
		})
	}

	_, err := other.Validate(token)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidToken), "signed with another secret")
}

func TestRandomSecret(t *testing.T) {
	a := NewService(Config{Username: "admin", Password: "admin"})
	b := NewService(Config{Username: "admin", Password: "admin"})

	_, err := b.Validate(a.Issue("admin").Value)
	assert.Error(t, err)
	assert.Equal(t, DefaultTTL, a.TTL())
}
