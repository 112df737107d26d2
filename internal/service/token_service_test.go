package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func TestTokenService_IssueParse(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, nil)

	tok, err := svc.Issue(" lab-a ", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.AccessToken == "" || tok.TokenID == "" || tok.ExpiresIn != 900 {
		t.Fatalf("unexpected token: %+v", tok)
	}

	claims, err := svc.Parse(tok.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ClientID != "lab-a" || claims.ID != tok.TokenID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_Revoke(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, NewMemoryRevocationStore())
	tok, err := svc.Issue("lab-a", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Revoke(tok.AccessToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Parse(tok.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestTokenService_RejectsEmptySecretAndClient(t *testing.T) {
	svc := NewTokenService("", time.Minute, nil)
	if svc.Enabled() {
		t.Fatalf("expected disabled service without secret")
	}
	if _, err := svc.Issue("lab-a", 0); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty secret, got %v", err)
	}

	svc = NewTokenService("secret", time.Minute, nil)
	if _, err := svc.Issue("   ", 0); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty client, got %v", err)
	}
	if _, err := svc.Parse(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty token, got %v", err)
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, nil)
	tok, err := svc.Issue("lab-a", time.Nanosecond)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := svc.Parse(tok.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_RejectsWrongIssuerAndSecret(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, nil)
	now := time.Now().UTC()
	claims := Claims{
		ClientID: "lab-a",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "j1",
			Issuer:    "other-issuer",
			Subject:   "lab-a",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.Parse(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}

	other := NewTokenService("other-secret", time.Minute, nil)
	tok, err := other.Issue("lab-a", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Parse(tok.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

type mockRedisKVClient struct {
	lastSetKey string
	lastSetTTL time.Duration
	lastExists []string

	setErr    error
	existsErr error
	existsN   int64
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastExists = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
		return cmd
	}
	cmd.SetVal(m.existsN)
	return cmd
}

func TestMemoryRevocationStore_Expiry(t *testing.T) {
	store := NewMemoryRevocationStore()

	ok, err := store.IsRevoked("missing")
	if err != nil || ok {
		t.Fatalf("expected missing jti false,nil; got %v,%v", ok, err)
	}
	if err := store.Revoke("", time.Minute); err != nil {
		t.Fatalf("empty jti revoke should be no-op, got %v", err)
	}
	if err := store.Revoke("j1", 50*time.Millisecond); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := store.IsRevoked("j1"); !ok {
		t.Fatalf("expected j1 revoked")
	}
	time.Sleep(70 * time.Millisecond)
	if ok, _ := store.IsRevoked("j1"); ok {
		t.Fatalf("expected revocation to lapse with the token")
	}
}

func TestRedisRevocationStore(t *testing.T) {
	mock := &mockRedisKVClient{existsN: 1}
	store := &redisRevocationStore{client: mock, prefix: "auth:revoked:"}

	if err := store.Revoke("j1", time.Minute); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if mock.lastSetKey != "auth:revoked:j1" || mock.lastSetTTL != time.Minute {
		t.Fatalf("unexpected set: %q %v", mock.lastSetKey, mock.lastSetTTL)
	}
	ok, err := store.IsRevoked("j1")
	if err != nil || !ok {
		t.Fatalf("expected revoked true,nil; got %v,%v", ok, err)
	}
	if len(mock.lastExists) != 1 || mock.lastExists[0] != "auth:revoked:j1" {
		t.Fatalf("unexpected exists key: %+v", mock.lastExists)
	}

	failing := &redisRevocationStore{
		client: &mockRedisKVClient{setErr: errors.New("set failed"), existsErr: errors.New("exists failed")},
		prefix: "auth:revoked:",
	}
	if err := failing.Revoke("j2", time.Minute); err == nil {
		t.Fatalf("expected revoke error")
	}
	if _, err := failing.IsRevoked("j2"); err == nil {
		t.Fatalf("expected exists error")
	}
	if ok, err := failing.IsRevoked(""); err != nil || ok {
		t.Fatalf("empty jti should be false,nil; got %v,%v", ok, err)
	}
}
