package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, plain := range []string{"password123", "", "비밀번호", "a very long passphrase with spaces"} {
		digest, err := h.Hash(plain)
		if err != nil {
			t.Fatalf("hash %q: %v", plain, err)
		}

		if digest == plain {
			t.Fatalf("digest must not equal plaintext")
		}

		if !h.Verify(plain, digest) {
			t.Fatalf("verify(%q, hash(%q)) = false", plain, plain)
		}
	}
}

func TestHasher_RejectsOtherPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h.Verify("battery staple", digest) {
		t.Fatalf("verify accepted the wrong password")
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-hash", "$2a$12$short"} {
		if h.Verify("anything", digest) {
			t.Fatalf("verify accepted malformed digest %q", digest)
		}
	}
}

func TestNewHasher_CostBounds(t *testing.T) {
	if got := NewHasher(0).cost; got != DefaultCost {
		t.Fatalf("cost 0 should fall back to %d, got %d", DefaultCost, got)
	}

	if got := NewHasher(bcrypt.MaxCost + 1).cost; got != DefaultCost {
		t.Fatalf("cost above max should fall back to %d, got %d", DefaultCost, got)
	}

	digest, err := NewHasher(DefaultCost).Hash("x")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil || cost != DefaultCost {
		t.Fatalf("digest cost = %d, %v; want %d", cost, err, DefaultCost)
	}
}
