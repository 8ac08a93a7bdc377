// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package fsutil

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// DataScheme is the prefix of RFC 2397 data URIs.
	DataScheme = "data:"

	// VarcharScheme is the prefix of URIs that carry their content verbatim.
	VarcharScheme = "data+varchar:"

	// BlobScheme is the prefix of URIs that carry backslash-escaped content.
	BlobScheme = "data+blob:"
)

// blobEscapeRatio is the inverse of the share of bytes that may need
// escaping for EncodeScalarfsURI to choose the blob encoding over base64.
const blobEscapeRatio = 10

// ErrInvalidURI is returned for malformed literal-content URIs.
var ErrInvalidURI = errors.New("invalid URI")

// EncodeDataURI encodes content as a base64 data URI.
func EncodeDataURI(content []byte) string {
	return DataScheme + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// EncodeVarcharURI encodes content as a data+varchar URI.
func EncodeVarcharURI(content []byte) string {
	return VarcharScheme + string(content)
}

// EncodeBlobURI encodes content as a data+blob URI. Backslashes and control
// characters are escaped.
func EncodeBlobURI(content []byte) string {
	var b strings.Builder
	b.Grow(len(BlobScheme) + len(content))
	b.WriteString(BlobScheme)
	for _, c := range content {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if isControl(c) {
				fmt.Fprintf(&b, `\x%02X`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EncodeScalarfsURI encodes content with the most compact readable encoding:
// data+varchar if the content has no control characters other than
// newlines, carriage returns and tabs, data+blob if fewer than 10% of the
// bytes need escaping and a base64 data URI otherwise.
func EncodeScalarfsURI(content []byte) string {
	varchar := true
	escapes := 0
	for _, c := range content {
		switch {
		case c == '\\':
			escapes++
		case c == '\n' || c == '\r' || c == '\t':
		case isControl(c):
			varchar = false
			escapes++
		}
	}
	switch {
	case varchar:
		return EncodeVarcharURI(content)
	case escapes*blobEscapeRatio < len(content):
		return EncodeBlobURI(content)
	default:
		return EncodeDataURI(content)
	}
}

// DecodeDataURI decodes a data URI of the form
// "data:[<mediatype>][;base64],<data>". Without the base64 marker the data
// is percent-decoded, malformed escapes are errors.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, DataScheme) {
		return nil, errDecodeFn(uri, "must start with %q", DataScheme)
	}
	meta, data, ok := strings.Cut(uri[len(DataScheme):], ",")
	if !ok {
		return nil, errDecodeFn(uri, "missing comma separator")
	}
	if strings.Contains(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, errDecodeFn(uri, "invalid base64: %v", err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(data)
	if err != nil {
		return nil, errDecodeFn(uri, "invalid URL encoding: %v", err)
	}
	return []byte(s), nil
}

// DecodeVarcharURI returns the content of a data+varchar URI.
func DecodeVarcharURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, VarcharScheme) {
		return nil, errDecodeFn(uri, "must start with %q", VarcharScheme)
	}
	return []byte(uri[len(VarcharScheme):]), nil
}

// DecodeBlobURI decodes a data+blob URI. The escapes \\, \n, \r, \t, \0 and
// \xNN are recognized, any other escape is an error.
func DecodeBlobURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, BlobScheme) {
		return nil, errDecodeFn(uri, "must start with %q", BlobScheme)
	}
	s := uri[len(BlobScheme):]
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			out = append(out, s[i])
			continue
		}
		if i+1 >= len(s) {
			return nil, errDecodeFn(uri, "escape sequence at end of content")
		}
		i++
		switch s[i] {
		case '\\':
			out = append(out, '\\')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '0':
			out = append(out, 0)
		case 'x':
			if i+2 >= len(s) {
				return nil, errDecodeFn(uri, `incomplete \x escape at position %d`, i-1)
			}
			b, err := hex.DecodeString(s[i+1 : i+3])
			if err != nil {
				return nil, errDecodeFn(uri, `invalid \x escape at position %d`, i-1)
			}
			out = append(out, b[0])
			i += 2
		default:
			return nil, errDecodeFn(uri, `invalid escape sequence '\%c' at position %d`, s[i], i-1)
		}
	}
	return out, nil
}

// DecodeScalarfsURI decodes a data, data+varchar or data+blob URI.
func DecodeScalarfsURI(uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, VarcharScheme):
		return DecodeVarcharURI(uri)
	case strings.HasPrefix(uri, BlobScheme):
		return DecodeBlobURI(uri)
	case strings.HasPrefix(uri, DataScheme):
		return DecodeDataURI(uri)
	}
	return nil, errDecodeFn(uri, "must start with %q, %q or %q", DataScheme, VarcharScheme, BlobScheme)
}

func isControl(c byte) bool {
	return c < 0x20 || c == 0x7f
}

func errDecodeFn(uri, format string, args ...any) error {
	return fmt.Errorf("fsutil.dataURI: %w: %s: %q", ErrInvalidURI, fmt.Sprintf(format, args...), abbrev(uri))
}

// abbrev shortens long URIs in error messages.
func abbrev(s string) string {
	const maxLen = 64
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
