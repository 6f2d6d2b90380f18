// Package issuer turns a shared-key credential plus a grant description into
// signed SAS query strings and URLs. It owns input validation and the
// clock-skew window; the byte-level canonicalization lives in internal/sas
// and the storage round-trips behind the AccountClient interface.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dharsanguruparan/BlobGrant/internal/sas"
	"github.com/dharsanguruparan/BlobGrant/internal/signing"
)

var (
	// ErrInvalidArgument rejects malformed input before any signing work.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrContainerNotFound aborts a checked batch whose container is missing.
	ErrContainerNotFound = errors.New("container not found")
)

// clockSkew backdates the validity window so a grant is usable immediately
// even when the client clock runs ahead of the service clock.
const clockSkew = time.Minute

// AccountClient is the storage collaborator the issuer depends on: base URL
// resolution and existence probes. Implementations must not retry on the
// issuer's behalf.
type AccountClient interface {
	// BlobURL resolves the absolute base URL of a blob, percent-encoding
	// each path segment.
	BlobURL(container, blobPath string) string
	// ContainerExists reports whether the container exists.
	ContainerExists(ctx context.Context, container string) (bool, error)
	// BlobExists reports whether the blob exists within the container.
	BlobExists(ctx context.Context, container, blobPath string) (bool, error)
}

// Issuer issues SAS grants for one storage account. It holds no mutable
// state and is safe for concurrent use.
type Issuer struct {
	cred    *signing.SharedKeyCredential
	account AccountClient
	version string
	now     func() time.Time
}

// New constructs an Issuer. The account client may be nil when only
// container-scoped query strings are needed; blob-scoped grants require it
// and fail with ErrInvalidArgument without one.
func New(cred *signing.SharedKeyCredential, account AccountClient) *Issuer {
	return &Issuer{
		cred:    cred,
		account: account,
		version: sas.VersionDefault,
		now:     time.Now,
	}
}

// WithVersion returns a copy of the issuer that signs with the given API
// version (and with it the canonicalization table). The receiver is left
// untouched, preserving its concurrency guarantee.
func (i *Issuer) WithVersion(version string) *Issuer {
	derived := *i
	derived.version = version
	return &derived
}

// grantInputs validates everything blob grants share. It runs before any
// signing or storage work so bad input never costs a round-trip.
func (i *Issuer) grantInputs(container string, perms sas.BlobPermissions, validity time.Duration) (start, expiry time.Time, err error) {
	if i.account == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("account client is required for blob grants: %w", ErrInvalidArgument)
	}
	if container == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("container name must not be empty: %w", ErrInvalidArgument)
	}
	if perms.String() == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("permission set must not be empty: %w", ErrInvalidArgument)
	}
	return i.window(validity)
}

// window derives the signed validity window from the configured clock.
func (i *Issuer) window(validity time.Duration) (start, expiry time.Time, err error) {
	if validity <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("validity %s must be positive: %w", validity, ErrInvalidArgument)
	}
	now := i.now().UTC()
	return now.Add(-clockSkew), now.Add(validity), nil
}

// ContainerSAS issues a container-scoped grant and returns the signed query
// string only. The caller appends it to whichever blob URL inside the
// container it wants to share; the grant itself is not tied to one URL.
func (i *Issuer) ContainerSAS(container string, perms sas.ContainerPermissions, validity time.Duration) (string, error) {
	if container == "" {
		return "", fmt.Errorf("container name must not be empty: %w", ErrInvalidArgument)
	}
	letters := perms.String()
	if letters == "" {
		return "", fmt.Errorf("permission set must not be empty: %w", ErrInvalidArgument)
	}
	start, expiry, err := i.window(validity)
	if err != nil {
		return "", err
	}
	params, err := sas.SignatureValues{
		Version:       i.version,
		StartTime:     start,
		ExpiryTime:    expiry,
		Permissions:   letters,
		ContainerName: container,
	}.SignWithSharedKey(i.cred)
	if err != nil {
		return "", fmt.Errorf("sign container grant: %w", err)
	}
	return params.Encode(), nil
}

// BlobSASURL issues a blob-scoped grant and returns the absolute URL, signed
// query string included, ready to hand to a client.
func (i *Issuer) BlobSASURL(container, blobPath string, perms sas.BlobPermissions, validity time.Duration) (string, error) {
	start, expiry, err := i.blobGrantInputs(container, blobPath, perms, validity)
	if err != nil {
		return "", err
	}
	return i.signBlobURL(container, blobPath, perms, start, expiry)
}

// blobGrantInputs validates the preconditions of a single blob-scoped grant.
func (i *Issuer) blobGrantInputs(container, blobPath string, perms sas.BlobPermissions, validity time.Duration) (start, expiry time.Time, err error) {
	if blobPath == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("blob path must not be empty: %w", ErrInvalidArgument)
	}
	return i.grantInputs(container, perms, validity)
}

// signBlobURL signs one blob grant over an already-validated window.
func (i *Issuer) signBlobURL(container, blobPath string, perms sas.BlobPermissions, start, expiry time.Time) (string, error) {
	params, err := sas.SignatureValues{
		Version:       i.version,
		StartTime:     start,
		ExpiryTime:    expiry,
		Permissions:   perms.String(),
		ContainerName: container,
		BlobName:      blobPath,
	}.SignWithSharedKey(i.cred)
	if err != nil {
		return "", fmt.Errorf("sign blob grant %q: %w", blobPath, err)
	}
	return i.account.BlobURL(container, blobPath) + "?" + params.Encode(), nil
}
