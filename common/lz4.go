// Copyright 2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compress frames the input with lz4
func Compress(in []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := lz4.NewWriter(buf)
	if _, err := io.Copy(zw, bytes.NewReader(in)); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress
func Decompress(in []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	zr := lz4.NewReader(bytes.NewReader(in))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}

	return buf.Bytes(), nil
}
