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

package config

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/chronicleprotocol/scalarfs/fsutil"
)

// Functions returns the functions available in configuration files.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"to_data_uri":       EncodeFunc("data URI with base64 payload", fsutil.EncodeDataURI),
		"to_varchar_uri":    EncodeFunc("data+varchar URI", fsutil.EncodeVarcharURI),
		"to_blob_uri":       EncodeFunc("data+blob URI", fsutil.EncodeBlobURI),
		"to_scalarfs_uri":   EncodeFunc("the most compact literal-content URI", fsutil.EncodeScalarfsURI),
		"from_data_uri":     DecodeFunc("data URI", fsutil.DecodeDataURI),
		"from_varchar_uri":  DecodeFunc("data+varchar URI", fsutil.DecodeVarcharURI),
		"from_blob_uri":     DecodeFunc("data+blob URI", fsutil.DecodeBlobURI),
		"from_scalarfs_uri": DecodeFunc("data, data+varchar or data+blob URI", fsutil.DecodeScalarfsURI),
	}
}

// EncodeFunc returns a function that encodes a string as a literal-content
// URI.
func EncodeFunc(target string, encode func([]byte) string) function.Function {
	return function.New(&function.Spec{
		Description: "Encodes content as a " + target,
		Params: []function.Parameter{
			{
				Name:        "content",
				Description: "content to encode",
				Type:        cty.String,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(encode([]byte(args[0].AsString()))), nil
		},
	})
}

// DecodeFunc returns a function that decodes a literal-content URI.
func DecodeFunc(source string, decode func(string) ([]byte, error)) function.Function {
	return function.New(&function.Spec{
		Description: "Decodes the content of a " + source,
		Params: []function.Parameter{
			{
				Name:        "uri",
				Description: "URI to decode",
				Type:        cty.String,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			b, err := decode(args[0].AsString())
			if err != nil {
				return cty.NilVal, function.NewArgError(0, err)
			}
			return cty.StringVal(string(b)), nil
		},
	})
}
