package authutil

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword should reject a different password")
	}
}

func TestCheckPassword_BadHash(t *testing.T) {
	if CheckPassword("anything", "not a bcrypt hash") {
		t.Error("CheckPassword should reject a malformed hash")
	}
}

func TestValidatePasswordRules(t *testing.T) {
	if msg := ValidatePasswordRules("short"); msg == "" {
		t.Error("expected a problem for a short password")
	}
	if msg := ValidatePasswordRules(strings.Repeat("x", 80)); msg == "" {
		t.Error("expected a problem for an overlong password")
	}
	if msg := ValidatePasswordRules("long enough password"); msg != "" {
		t.Errorf("expected no problem, got %q", msg)
	}
}
