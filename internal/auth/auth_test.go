package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("adminpassword")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !CheckPassword("adminpassword", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 30*time.Minute)
	token, err := manager.Generate("admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	username, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if username != "admin" {
		t.Fatalf("expected subject admin got %q", username)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Minute).Generate("admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Minute).Parse(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Minute)
	manager.lifespan = -time.Minute
	token, err := manager.Generate("admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := manager.Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := NewTokenManager("test-secret", time.Minute).Parse("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
