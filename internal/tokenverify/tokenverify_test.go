package tokenverify

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type stubParser struct {
	token  *jwt.Token
	claims jwt.MapClaims
	err    error
}

func (s stubParser) Parse(string) (*jwt.Token, jwt.MapClaims, error) {
	return s.token, s.claims, s.err
}

func TestVerifySuccess(t *testing.T) {
	exp := float64(time.Now().Add(time.Minute).Unix())
	parser := stubParser{
		token:  &jwt.Token{Valid: true},
		claims: jwt.MapClaims{"sub": "user-1", "email": "user@example.com", "roles": []interface{}{"user", "admin"}, "exp": exp},
	}
	result, err := Verify(parser, "token", time.Now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.UserID != "user-1" || result.Email != "user@example.com" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Roles) != 2 || result.Roles[1] != "admin" {
		t.Fatalf("roles not extracted: %+v", result.Roles)
	}
}

func TestVerifyInvalidToken(t *testing.T) {
	parser := stubParser{err: errors.New("parse failure")}
	if _, err := Verify(parser, "token", time.Now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	exp := float64(time.Now().Add(-time.Minute).Unix())
	parser := stubParser{
		token:  &jwt.Token{Valid: true},
		claims: jwt.MapClaims{"sub": "user-1", "exp": exp},
	}
	if _, err := Verify(parser, "token", time.Now); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifySubjectMissing(t *testing.T) {
	exp := float64(time.Now().Add(time.Minute).Unix())
	parser := stubParser{
		token:  &jwt.Token{Valid: true},
		claims: jwt.MapClaims{"email": "user@example.com", "exp": exp},
	}
	if _, err := Verify(parser, "token", time.Now); !errors.Is(err, ErrSubjectMissing) {
		t.Fatalf("expected ErrSubjectMissing, got %v", err)
	}
}

func TestVerifyNilParser(t *testing.T) {
	if _, err := Verify(nil, "token", time.Now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
