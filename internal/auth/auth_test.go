package auth

import (
	"testing"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
)

func TestSignAndParse(t *testing.T) {
	user := &models.User{ID: "u-1", TenantID: "t-1", Role: models.RoleCandidate}

	token, err := Sign(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := Parse(token, "secret")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.TenantID != "t-1" || claims.Role != models.RoleCandidate {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := Parse(token, "other-secret"); err != ErrInvalidToken {
		t.Fatalf("wrong secret: got %v, want ErrInvalidToken", err)
	}
	if _, err := Parse("not-a-token", "secret"); err != ErrInvalidToken {
		t.Fatalf("garbage token: got %v, want ErrInvalidToken", err)
	}
}

func TestParseExpired(t *testing.T) {
	user := &models.User{ID: "u-1"}
	token, err := Sign(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Parse(token, "secret"); err != ErrInvalidToken {
		t.Fatalf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("S3cure!pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "S3cure!pass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
