package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Sternrassler/edu-api-proxy/internal/testutil"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		header   string
		expected contentEncoding
	}{
		{"br", encodingBrotli},
		{"BR", encodingBrotli},
		{"gzip", encodingGzip},
		{"x-gzip", encodingGzip},
		{"gzip, br", encodingBrotli},
		{"deflate", encodingIdentity},
		{"identity", encodingIdentity},
		{"", encodingIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := detectEncoding(tt.header); got != tt.expected {
				t.Errorf("detectEncoding(%q) = %s, want %s", tt.header, got, tt.expected)
			}
		})
	}
}

func TestDecodeBody(t *testing.T) {
	plain := []byte(`{"data": [1, 2, 3]}`)

	tests := []struct {
		name   string
		body   []byte
		header string
	}{
		{"brotli", testutil.Brotli(plain), "br"},
		{"gzip", testutil.Gzip(plain), "gzip"},
		{"identity", plain, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := decodeBody(tt.body, tt.header, DefaultMaxBodyBytes)
			if err != nil {
				t.Fatalf("decodeBody failed: %v", err)
			}
			if !bytes.Equal(decoded, plain) {
				t.Errorf("decodeBody = %q, want %q", decoded, plain)
			}
		})
	}
}

func TestDecodeBody_Corrupt(t *testing.T) {
	compressed := testutil.Brotli([]byte(strings.Repeat(`{"data": "payload"}`, 64)))

	if _, err := decodeBody(compressed[:len(compressed)/2], "br", DefaultMaxBodyBytes); err == nil {
		t.Error("expected error for truncated brotli stream")
	}
	if _, err := decodeBody([]byte("plain text"), "gzip", DefaultMaxBodyBytes); err == nil {
		t.Error("expected error for invalid gzip header")
	}
}

func TestDecodeBody_Limit(t *testing.T) {
	large := bytes.Repeat([]byte("a"), 4096)

	if _, err := decodeBody(testutil.Gzip(large), "gzip", 1024); err == nil {
		t.Error("expected error when decompressed size exceeds limit")
	}
	if _, err := decodeBody(testutil.Gzip(large), "gzip", 4096); err != nil {
		t.Errorf("decompressed size equal to limit should pass: %v", err)
	}
}

func TestDecodeText(t *testing.T) {
	if _, err := decodeText([]byte(`{"name": "Dhaka"}`)); err != nil {
		t.Errorf("valid UTF-8 rejected: %v", err)
	}
	if _, err := decodeText([]byte{0xff, 0xfe}); err != errInvalidUTF8 {
		t.Errorf("decodeText error = %v, want %v", err, errInvalidUTF8)
	}
}
