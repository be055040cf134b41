package auth

import (
	"errors"
	"testing"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hasher := NewPasswordHasherWithCost(4) // min cost keeps the test fast

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	err = hasher.Compare(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Compare with right password: %v", err)
	}

	err = hasher.Compare(hash, "wrong password")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("Compare with wrong password: err = %v, want ErrInvalidPassword", err)
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasherWithCost(4)

	a, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}
