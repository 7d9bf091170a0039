package auth

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	id := Identity{UserID: "user-1", TenantID: "tenant-1"}
	token, err := issuer.Issue(id)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != id {
		t.Errorf("Verify() = %+v, want %+v", got, id)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	if _, err := issuer.Verify("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Verify(garbage) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	other := NewTokenIssuer("ffffffffffffffffffffffffffffffff", time.Hour)

	token, err := issuer.Issue(Identity{UserID: "u", TenantID: "t"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, -time.Minute)

	token, err := issuer.Issue(Identity{UserID: "u", TenantID: "t"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() of expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Error("HashPassword() returned plaintext")
	}

	if !CheckPassword(hash, "hunter22") {
		t.Error("CheckPassword() with correct password = false, want true")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("CheckPassword() with wrong password = true, want false")
	}
}
