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

// Package model holds the plain data records the allocation engine operates
// on. Each record is populated once, atomically, from a field-keyed bundle;
// a bundle missing a required field fails with ErrMissingField before a
// record exists. Constructors copy fields verbatim with no defaulting or
// validation
package model

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrMissingField  = errors.New("required construction field is missing")
	ErrArmOutOfRange = errors.New("arm index outside of bandit model")
)

// requireField unmarshals args[field] into out; a missing key is an error
func requireField(args map[string]json.RawMessage, field string, out interface{}) error {
	raw, ok := args[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("could not parse field %s: %w", field, err)
	}

	return nil
}
