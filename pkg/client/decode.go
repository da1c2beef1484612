package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
)

// contentEncoding is the decoder chosen for a response body.
type contentEncoding int

const (
	encodingIdentity contentEncoding = iota
	encodingBrotli
	encodingGzip
)

func (e contentEncoding) String() string {
	switch e {
	case encodingBrotli:
		return "br"
	case encodingGzip:
		return "gzip"
	default:
		return "identity"
	}
}

var errInvalidUTF8 = errors.New("body is not valid UTF-8")

// detectEncoding maps a Content-Encoding header onto a decoder using a
// case-insensitive substring match:
//
//	contains "br"   -> brotli
//	contains "gzip" -> gzip
//	otherwise       -> pass-through
//
// deflate is requested from upstream but not decoded.
func detectEncoding(header string) contentEncoding {
	header = strings.ToLower(header)
	switch {
	case strings.Contains(header, "br"):
		return encodingBrotli
	case strings.Contains(header, "gzip"):
		return encodingGzip
	default:
		return encodingIdentity
	}
}

// decodeBody decompresses body according to its declared Content-Encoding.
// The decoded size is capped at limit bytes.
func decodeBody(body []byte, header string, limit int64) ([]byte, error) {
	var reader io.Reader

	switch detectEncoding(header) {
	case encodingBrotli:
		reader = brotli.NewReader(bytes.NewReader(body))
	case encodingGzip:
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	default:
		return body, nil
	}

	decoded, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("decompress %s body: %w", detectEncoding(header), err)
	}
	if int64(len(decoded)) > limit {
		return nil, fmt.Errorf("decompressed body exceeds %d bytes", limit)
	}

	return decoded, nil
}

// decodeText checks that a decoded body is UTF-8 text.
func decodeText(body []byte) ([]byte, error) {
	if !utf8.Valid(body) {
		return nil, errInvalidUTF8
	}
	return body, nil
}
