package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestNewValidatesInputs(t *testing.T) {
	// Absent inputs are an argument problem; only an undecodable key is a
	// credential problem. The two classes must stay distinguishable.
	if _, err := New("", "c2VjcmV0"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty account name, got %v", err)
	}
	if _, err := New("devstore", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty key, got %v", err)
	}
	if _, err := New("devstore", ""); errors.Is(err, ErrInvalidCredential) {
		t.Fatal("empty key must not be classified as ErrInvalidCredential")
	}
	if _, err := New("devstore", "not base64!!"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for undecodable key, got %v", err)
	}
	if _, err := New("devstore", "not base64!!"); errors.Is(err, ErrInvalidArgument) {
		t.Fatal("undecodable key must not be classified as ErrInvalidArgument")
	}
	cred, err := New("devstore", base64.StdEncoding.EncodeToString([]byte("topsecret")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.AccountName() != "devstore" {
		t.Fatalf("expected account name devstore, got %s", cred.AccountName())
	}
}

func TestErrorsNeverContainKey(t *testing.T) {
	// The decode failure must not quote the key, even partially.
	const key = "!!not-actually-base64-material!!"
	_, err := New("devstore", key)
	if err == nil {
		t.Fatal("expected error")
	}
	if msg := err.Error(); strings.Contains(msg, key) || strings.Contains(msg, "not-actually") {
		t.Fatalf("error message leaks key material: %q", msg)
	}
}

func TestComputeHMACSHA256MatchesReference(t *testing.T) {
	raw := []byte("0123456789abcdef")
	cred, err := New("devstore", base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const canonical = "rl\n2026-01-02T15:04:05Z\n2026-01-02T16:04:05Z\n/blob/devstore/uploads\n\n\n\n2018-11-09\nc\n\n\n\n\n\n"
	got := cred.ComputeHMACSHA256(canonical)

	// Recompute independently with the stdlib primitives.
	mac := hmac.New(sha256.New, raw)
	mac.Write([]byte(canonical))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if got != want {
		t.Fatalf("signature mismatch: got %s want %s", got, want)
	}

	// Determinism: repeated calls over the same canonical string agree.
	if again := cred.ComputeHMACSHA256(canonical); again != got {
		t.Fatalf("expected deterministic signature, got %s then %s", got, again)
	}
}

func TestZeroWipesKey(t *testing.T) {
	raw := []byte("wipeme-wipeme-wipeme")
	cred, err := New("devstore", base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := cred.ComputeHMACSHA256("payload")
	cred.Zero()
	after := cred.ComputeHMACSHA256("payload")
	if before == after {
		t.Fatal("expected zeroed credential to produce a different (useless) signature")
	}
}
