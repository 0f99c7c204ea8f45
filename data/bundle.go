// Copyright 2022-2023
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

package data

import (
	"context"

	"github.com/goccy/go-json"
)

// ResolveBundle splices archive-resident market data and preference tables
// into a construction bundle that references a dataset instead of carrying
// them inline. Keys already present in the bundle win
func ResolveBundle(ctx context.Context, m *Manager, dataset string, bundle map[string]json.RawMessage) error {
	if dataset == "" {
		return nil
	}

	if _, ok := bundle["marketData"]; !ok {
		history, err := m.History(ctx, dataset)
		if err != nil {
			return err
		}

		raw, err := json.Marshal(history)
		if err != nil {
			return err
		}
		bundle["marketData"] = raw
	}

	if _, ok := bundle["preferences"]; !ok {
		prefs := make(map[Mood]*PreferenceTable, len(Moods))
		for _, mood := range Moods {
			table, err := m.Preferences(ctx, mood)
			if err != nil {
				return err
			}
			prefs[mood] = table
		}

		raw, err := json.Marshal(prefs)
		if err != nil {
			return err
		}
		bundle["preferences"] = raw
	}

	return nil
}
