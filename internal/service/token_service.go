package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService emite y valida los bearer tokens de la API.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  RevocationStore
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenID     string `json:"token_id"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Claims struct {
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

func NewTokenService(secret string, ttl time.Duration, store RevocationStore) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if store == nil {
		store = NewMemoryRevocationStore()
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "questionnaire-reader",
		store:  store,
	}
}

// Enabled reports whether a signing secret is configured.
func (s *TokenService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// Issue signs a token for clientID; ttl <= 0 uses the service default.
func (s *TokenService) Issue(clientID string, ttl time.Duration) (Token, error) {
	if !s.Enabled() {
		return Token{}, ErrTokenInvalid
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return Token{}, ErrTokenInvalid
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now().UTC()
	jti := uuid.NewString()
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenID: jti, ExpiresIn: int64(ttl.Seconds())}, nil
}

// Parse validates signature, expiry, issuer and revocation.
func (s *TokenService) Parse(token string) (Claims, error) {
	if !s.Enabled() {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(token) == "" {
		return Claims{}, ErrTokenInvalid
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	revoked, err := s.store.IsRevoked(claims.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates a token until it would have expired anyway.
func (s *TokenService) Revoke(token string) error {
	claims, err := s.Parse(token)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.store.Revoke(claims.ID, ttl)
}

func (s *TokenService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.ClientID) == "" || claims.Subject != claims.ClientID {
		return false
	}
	if strings.TrimSpace(claims.ID) == "" || claims.ExpiresAt == nil {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
