package sas

import (
	"fmt"
	"strings"
)

// ContainerPermissions is the flag set a container-scoped grant may carry.
// The rendered string must follow the service's fixed letter order; the
// verifier re-derives the same string, so insertion order never leaks out.
type ContainerPermissions struct {
	Read, Add, Create, Write, Delete, List bool
}

// String renders the permission letters in the canonical racwdl order.
func (p ContainerPermissions) String() string {
	var b strings.Builder
	if p.Read {
		b.WriteByte('r')
	}
	if p.Add {
		b.WriteByte('a')
	}
	if p.Create {
		b.WriteByte('c')
	}
	if p.Write {
		b.WriteByte('w')
	}
	if p.Delete {
		b.WriteByte('d')
	}
	if p.List {
		b.WriteByte('l')
	}
	return b.String()
}

// ParseContainerPermissions accepts permission letters in any order and
// returns the normalized flag set. Unknown letters are rejected.
func ParseContainerPermissions(s string) (ContainerPermissions, error) {
	var p ContainerPermissions
	for _, r := range s {
		switch r {
		case 'r':
			p.Read = true
		case 'a':
			p.Add = true
		case 'c':
			p.Create = true
		case 'w':
			p.Write = true
		case 'd':
			p.Delete = true
		case 'l':
			p.List = true
		default:
			return ContainerPermissions{}, fmt.Errorf("invalid container permission %q", r)
		}
	}
	return p, nil
}

// BlobPermissions is the flag set a blob-scoped grant may carry. It is the
// container vocabulary minus List, which only makes sense for a container.
type BlobPermissions struct {
	Read, Add, Create, Write, Delete bool
}

// String renders the permission letters in the canonical racwd order.
func (p BlobPermissions) String() string {
	var b strings.Builder
	if p.Read {
		b.WriteByte('r')
	}
	if p.Add {
		b.WriteByte('a')
	}
	if p.Create {
		b.WriteByte('c')
	}
	if p.Write {
		b.WriteByte('w')
	}
	if p.Delete {
		b.WriteByte('d')
	}
	return b.String()
}

// ParseBlobPermissions accepts permission letters in any order and returns
// the normalized flag set. Unknown letters are rejected.
func ParseBlobPermissions(s string) (BlobPermissions, error) {
	var p BlobPermissions
	for _, r := range s {
		switch r {
		case 'r':
			p.Read = true
		case 'a':
			p.Add = true
		case 'c':
			p.Create = true
		case 'w':
			p.Write = true
		case 'd':
			p.Delete = true
		default:
			return BlobPermissions{}, fmt.Errorf("invalid blob permission %q", r)
		}
	}
	return p, nil
}
