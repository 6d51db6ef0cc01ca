package utils

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ngpass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Str0ngpass" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPasswordHash("Str0ngpass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrongpass1A", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "64b5f0c2a2f4e6d8b9c0a1b2", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "64b5f0c2a2f4e6d8b9c0a1b2" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenHonoursConfiguredTTL(t *testing.T) {
	token, err := GenerateToken("secret", "id", "admin", 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 7*24*time.Hour-time.Minute || ttl > 7*24*time.Hour {
		t.Errorf("token expires in %v, want about 7 days", ttl)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "id", "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Error("token verified against the wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := generateToken("secret", "id", "admin", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	if _, err := GenerateToken("", "id", "admin", time.Hour); err == nil {
		t.Error("token issued without a configured secret")
	}
	if _, err := ParseToken("", "whatever"); err == nil {
		t.Error("token parsed without a configured secret")
	}
}
