// Package sas builds Shared Access Signature tokens: permission sets, the
// versioned canonical string-to-sign, and the ordered query serialization.
// The verifying service recomputes the canonical string byte for byte, so
// field order, empty-slot placeholders, and time formatting are all part of
// the wire contract.
package sas

import (
	"fmt"
	"strings"
	"time"

	"github.com/dharsanguruparan/BlobGrant/internal/signing"
)

// TimeFormat is the canonical timestamp rendering: UTC, second precision,
// explicit Z. Fractional seconds must not appear in the string-to-sign.
const TimeFormat = "2006-01-02T15:04:05Z"

// Service API versions with known string-to-sign layouts. The field list is
// a per-version contract; an unknown version is an error, not a guess.
const (
	VersionLegacy  = "2015-04-05"
	VersionDefault = "2018-11-09"
)

// Resource type codes carried in the sr parameter.
const (
	ResourceContainer = "c"
	ResourceBlob      = "b"
)

// FormatTime renders t for the canonical string; the zero time renders as an
// empty slot.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeFormat)
}

// CanonicalResource builds the canonical path of the signed resource:
// /blob/<account>/<container> for container grants, with /<blobPath> appended
// for blob grants. The path is the literal stored name; percent-encoding
// belongs to the URL layer, never to the string-to-sign.
func CanonicalResource(account, container, blobPath string) string {
	elems := []string{"/blob/", account, "/", container}
	if blobPath != "" {
		elems = append(elems, "/", strings.ReplaceAll(blobPath, `\`, "/"))
	}
	return strings.Join(elems, "")
}

// SignatureValues describes one grant to be signed. It is transient: build
// it, sign it, drop it.
type SignatureValues struct {
	Version       string // defaults to VersionDefault
	Protocol      string // spr; empty means both https and http
	StartTime     time.Time
	ExpiryTime    time.Time
	Permissions   string // canonical-order letters, see ContainerPermissions/BlobPermissions
	IPRange       string // sip
	Identifier    string // si, stored-access-policy reference
	ContainerName string
	BlobName      string // empty for a container grant
	SnapshotTime  string // blob snapshot grants only, versions >= 2018-11-09

	// Response header overrides, signed for blob grants.
	CacheControl       string // rscc
	ContentDisposition string // rscd
	ContentEncoding    string // rsce
	ContentLanguage    string // rscl
	ContentType        string // rsct
}

// Resource returns the one-letter resource type code for these values.
func (v SignatureValues) Resource() string {
	if v.BlobName == "" {
		return ResourceContainer
	}
	return ResourceBlob
}

// stringToSignFields returns the newline-joined field list for the requested
// version. Each layout keeps every slot present even when empty: a missing
// slot shifts every later field and the service-side comparison fails.
func stringToSignFields(version string, v SignatureValues, resource, canonical string) ([]string, error) {
	start := FormatTime(v.StartTime)
	expiry := FormatTime(v.ExpiryTime)

	switch version {
	case VersionLegacy:
		return []string{
			v.Permissions,
			start,
			expiry,
			canonical,
			v.Identifier,
			v.IPRange,
			v.Protocol,
			version,
			v.CacheControl,
			v.ContentDisposition,
			v.ContentEncoding,
			v.ContentLanguage,
			v.ContentType,
		}, nil
	case VersionDefault:
		return []string{
			v.Permissions,
			start,
			expiry,
			canonical,
			v.Identifier,
			v.IPRange,
			v.Protocol,
			version,
			resource,
			v.SnapshotTime,
			v.CacheControl,
			v.ContentDisposition,
			v.ContentEncoding,
			v.ContentLanguage,
			v.ContentType,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported SAS version %q", version)
	}
}

// StringToSign assembles the canonical string for the named account. The
// result is deterministic: the same values always produce identical bytes.
func (v SignatureValues) StringToSign(account string) (string, error) {
	version := v.Version
	if version == "" {
		version = VersionDefault
	}
	canonical := CanonicalResource(account, v.ContainerName, v.BlobName)
	fields, err := stringToSignFields(version, v, v.Resource(), canonical)
	if err != nil {
		return "", err
	}
	return strings.Join(fields, "\n"), nil
}

// SignWithSharedKey normalizes the permission letters, builds the canonical
// string, signs it with the credential, and captures everything into an
// immutable parameter set.
func (v SignatureValues) SignWithSharedKey(cred *signing.SharedKeyCredential) (QueryParameters, error) {
	if v.ContainerName == "" {
		return QueryParameters{}, fmt.Errorf("container name must not be empty")
	}
	if !v.ExpiryTime.After(v.StartTime) {
		return QueryParameters{}, fmt.Errorf("expiry %s is not after start %s",
			FormatTime(v.ExpiryTime), FormatTime(v.StartTime))
	}

	// Re-parse and re-render so out-of-order caller input still signs the
	// canonical ordering the service will re-derive.
	if v.BlobName == "" {
		perms, err := ParseContainerPermissions(v.Permissions)
		if err != nil {
			return QueryParameters{}, err
		}
		v.Permissions = perms.String()
	} else {
		perms, err := ParseBlobPermissions(v.Permissions)
		if err != nil {
			return QueryParameters{}, err
		}
		v.Permissions = perms.String()
	}
	if v.Permissions == "" {
		return QueryParameters{}, fmt.Errorf("permission set must not be empty")
	}
	if v.Version == "" {
		v.Version = VersionDefault
	}

	stringToSign, err := v.StringToSign(cred.AccountName())
	if err != nil {
		return QueryParameters{}, err
	}

	return QueryParameters{
		version:            v.Version,
		startTime:          FormatTime(v.StartTime),
		expiryTime:         FormatTime(v.ExpiryTime),
		resource:           v.Resource(),
		permissions:        v.Permissions,
		protocol:           v.Protocol,
		ipRange:            v.IPRange,
		identifier:         v.Identifier,
		cacheControl:       v.CacheControl,
		contentDisposition: v.ContentDisposition,
		contentEncoding:    v.ContentEncoding,
		contentLanguage:    v.ContentLanguage,
		contentType:        v.ContentType,
		signature:          cred.ComputeHMACSHA256(stringToSign),
	}, nil
}
