package account

import (
	"encoding/base64"
	"testing"
)

func testConfig() Config {
	return Config{
		Account:    "devstore",
		AccountKey: base64.StdEncoding.EncodeToString([]byte("0123456789abcdef")),
	}
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{AccountKey: "a2V5"}); err == nil {
		t.Error("expected error for missing account name")
	}
	if _, err := New(Config{Account: "devstore"}); err == nil {
		t.Error("expected error for missing account key")
	}
	if _, err := New(testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBlobURLEscapesSegments(t *testing.T) {
	client, err := New(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]string{
		"f.pdf":         "https://devstore.blob.core.windows.net/uploads/f.pdf",
		"a/b c.pdf":     "https://devstore.blob.core.windows.net/uploads/a/b%20c.pdf",
		"q?.txt":        "https://devstore.blob.core.windows.net/uploads/q%3F.txt",
		"dir/sub/x.bin": "https://devstore.blob.core.windows.net/uploads/dir/sub/x.bin",
	}
	for path, want := range cases {
		if got := client.BlobURL("uploads", path); got != want {
			t.Errorf("BlobURL(%q): got %s want %s", path, got, want)
		}
	}
}

func TestEndpointOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoint = "http://127.0.0.1:10000/devstore/"
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "http://127.0.0.1:10000/devstore/uploads/f.pdf"
	if got := client.BlobURL("uploads", "f.pdf"); got != want {
		t.Errorf("got %s want %s", got, want)
	}
}
