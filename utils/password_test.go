package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("secret123", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("wrong password must not verify")
	}
}

func TestCheckPasswordHashMalformed(t *testing.T) {
	if CheckPasswordHash("anything", "not-a-bcrypt-hash") {
		t.Error("malformed hash must verify as false, not panic")
	}
}
