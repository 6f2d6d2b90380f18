// Package signing implements the shared-key credential used to sign SAS
// tokens. The credential owns the decoded account key and exposes a single
// HMAC-SHA256 operation over a caller-supplied canonical string.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument rejects an absent account name or key before any
	// decoding is attempted.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidCredential is returned when the account key cannot be
	// decoded. The message never echoes the key itself.
	ErrInvalidCredential = errors.New("invalid shared key credential")
)

// SharedKeyCredential pairs a storage account name with its decoded secret
// key. It is immutable after construction and safe for concurrent use; the
// only mutating method is Zero, which ends the credential's useful life.
type SharedKeyCredential struct {
	accountName string
	accountKey  []byte
}

// New builds a credential from an account name and a base64-encoded account
// key, the form the storage service hands out.
func New(accountName, accountKey string) (*SharedKeyCredential, error) {
	if accountName == "" {
		return nil, fmt.Errorf("account name must not be empty: %w", ErrInvalidArgument)
	}
	if accountKey == "" {
		return nil, fmt.Errorf("account key must not be empty: %w", ErrInvalidArgument)
	}
	key, err := base64.StdEncoding.DecodeString(accountKey)
	if err != nil {
		// Deliberately drop the decode error: it can quote fragments of the key.
		return nil, fmt.Errorf("account key is not valid base64: %w", ErrInvalidCredential)
	}
	return &SharedKeyCredential{accountName: accountName, accountKey: key}, nil
}

// AccountName returns the storage account this credential signs for.
func (c *SharedKeyCredential) AccountName() string {
	return c.accountName
}

// ComputeHMACSHA256 signs the canonical string and returns the signature
// base64-encoded, which is the encoding the service expects in the sig
// query parameter.
func (c *SharedKeyCredential) ComputeHMACSHA256(canonical string) string {
	// hmac.New accepts the hash constructor (sha256.New) plus the secret key.
	mac := hmac.New(sha256.New, c.accountKey)
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Zero overwrites the key material. Call it once the credential is no longer
// needed so the secret does not linger in memory; the credential must not be
// used for signing afterwards.
func (c *SharedKeyCredential) Zero() {
	for i := range c.accountKey {
		c.accountKey[i] = 0
	}
	c.accountKey = c.accountKey[:0]
}
