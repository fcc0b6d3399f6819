package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionManager signs and validates the stateless session token carried by the
// client. The token is the only session state; there is no server-side session
// record to invalidate.
type SessionManager struct {
	Secret []byte
	TTL    time.Duration
}

var defaultSessions *SessionManager

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	m := &SessionManager{Secret: []byte(secret), TTL: ttl}
	defaultSessions = m
	return m
}

// DefaultSessions returns the last constructed SessionManager (used for auto-wiring routes)
func DefaultSessions() *SessionManager { return defaultSessions }

// SessionClaims is the identity encoded into the session token. CompletedOnboarding
// is a best-effort cache of the store flag; it is refreshed on read, not on write.
type SessionClaims struct {
	UserID              string `json:"uid"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	Image               string `json:"image,omitempty"`
	CompletedOnboarding bool   `json:"completed_onboarding"`
	jwt.RegisteredClaims
}

func (m *SessionManager) Issue(claims *SessionClaims) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *SessionManager) Parse(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
