package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("sturdy-pw1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "sturdy-pw1" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("sturdy-pw1", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong-pw99", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		pw       string
		username string
		ok       bool
	}{
		{"accepts decent password", "sturdy-pw1", "alice", true},
		{"too short", "ab1", "alice", false},
		{"no digit", "onlyletters", "alice", false},
		{"no letter", "123456790", "alice", false},
		{"common substring", "Password123", "alice", false},
		{"contains username", "alice2024x", "alice", false},
		{"username check is case-insensitive", "ALICE2024x", "alice", false},
		{"empty username never matches", "sturdy-pw1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ValidatePasswordPolicy(tt.pw, tt.username)
			if ok != tt.ok {
				t.Fatalf("ValidatePasswordPolicy(%q) = %v (%s), want %v", tt.pw, ok, reason, tt.ok)
			}
			if !ok && reason == "" {
				t.Fatal("rejections must carry a reason")
			}
		})
	}
}
