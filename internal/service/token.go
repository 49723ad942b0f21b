package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("unauthorized")

const selectionType = "selection"

type claims struct {
	Typ string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues HS256 session tokens (sub = member id) and short-lived
// selection tokens (sub = email) for logins that match several members.
type TokenService struct {
	secret       []byte
	ttl          time.Duration
	selectionTTL time.Duration
	now          func() time.Time
}

func NewTokenService(secret string, ttl, selectionTTL time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, selectionTTL: selectionTTL, now: time.Now}
}

func (s *TokenService) IssueSession(memberID string) (string, error) {
	return s.sign(memberID, "", s.ttl)
}

// VerifySession returns the member id of a valid session token. Selection
// tokens and legacy tokens carrying a numeric id are rejected.
func (s *TokenService) VerifySession(token string) (string, error) {
	c, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if c.Typ != "" || c.Subject == "" {
		return "", ErrUnauthorized
	}
	if _, err := strconv.ParseUint(c.Subject, 10, 64); err == nil {
		return "", fmt.Errorf("%w: legacy numeric subject", ErrUnauthorized)
	}
	return c.Subject, nil
}

func (s *TokenService) IssueSelection(email string) (string, error) {
	return s.sign(email, selectionType, s.selectionTTL)
}

// VerifySelection returns the email a selection token was issued for.
func (s *TokenService) VerifySelection(token string) (string, error) {
	c, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if c.Typ != selectionType || c.Subject == "" {
		return "", ErrUnauthorized
	}
	return c.Subject, nil
}

func (s *TokenService) sign(sub, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Typ: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return &c, nil
}
