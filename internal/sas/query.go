package sas

import (
	"net/url"
	"strings"
)

// QueryParameters is a signed grant rendered to its query-string fields. All
// fields are captured at signing time and unexported: once signed, nothing
// here may change, because the signature covers the rendered values.
type QueryParameters struct {
	version     string // sv
	startTime   string // st
	expiryTime  string // se
	resource    string // sr
	permissions string // sp
	protocol    string // spr
	ipRange     string // sip
	identifier  string // si
	signature   string // sig

	// Response header overrides. Signed into the rscc-rsct slots, so they
	// must travel with the token for the verifier to recompute the string.
	cacheControl       string // rscc
	contentDisposition string // rscd
	contentEncoding    string // rsce
	contentLanguage    string // rscl
	contentType        string // rsct
}

// Version returns the sv parameter.
func (p QueryParameters) Version() string { return p.version }

// Resource returns the sr parameter ("c" or "b").
func (p QueryParameters) Resource() string { return p.resource }

// Permissions returns the normalized sp parameter.
func (p QueryParameters) Permissions() string { return p.permissions }

// Signature returns the base64 sig parameter prior to percent-encoding.
func (p QueryParameters) Signature() string { return p.signature }

// Encode renders the parameters as a query string in the service's
// conventional order, percent-encoding each value. Optional parameters are
// omitted entirely when empty; sig always comes last.
func (p QueryParameters) Encode() string {
	pairs := []struct{ key, value string }{
		{"sv", p.version},
		{"st", p.startTime},
		{"se", p.expiryTime},
		{"sr", p.resource},
		{"sp", p.permissions},
		{"spr", p.protocol},
		{"sip", p.ipRange},
		{"si", p.identifier},
		{"rscc", p.cacheControl},
		{"rscd", p.contentDisposition},
		{"rsce", p.contentEncoding},
		{"rscl", p.contentLanguage},
		{"rsct", p.contentType},
		{"sig", p.signature},
	}
	var b strings.Builder
	for _, kv := range pairs {
		if kv.value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv.key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}
