package helpers

import (
	"testing"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatal("CheckPassword rejected the original password")
	}
	if CheckPassword(hash, "wrong password!") {
		t.Fatal("CheckPassword accepted a wrong password")
	}
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("some-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("some-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same input are identical; salt is not fresh")
	}
}
