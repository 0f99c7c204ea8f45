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

package data

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ArmStats holds the recorded outcome counts of one bandit arm
type ArmStats struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Provider is the interface for retrieving market data archives. Archives are
// keyed by a dataset identifier; each mood also names a dataset carrying its
// preference table
type Provider interface {
	DatasetType() string
	GetHistory(ctx context.Context, dataset string) (History, error)
	GetPreferences(ctx context.Context, mood Mood) (*PreferenceTable, error)
	GetBanditResults(ctx context.Context, dataset string) (map[string]ArmStats, error)
}

// Manager dispatches data requests to registered providers
type Manager struct {
	providers map[string]Provider
}

// NewManager creates a new data manager
func NewManager() *Manager {
	return &Manager{
		providers: map[string]Provider{},
	}
}

// RegisterProvider adds a data provider to the manager
func (m *Manager) RegisterProvider(p Provider) {
	m.providers[p.DatasetType()] = p
}

// History retrieves a ticker-to-table map from the first provider that has
// the requested dataset
func (m *Manager) History(ctx context.Context, dataset string) (History, error) {
	for _, p := range m.providers {
		history, err := p.GetHistory(ctx, dataset)
		if err == nil {
			return history, nil
		}
		log.Debug().Err(err).Str("DatasetType", p.DatasetType()).Str("Dataset", dataset).Msg("provider does not have dataset")
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
}

// Preferences retrieves the preference table for the given mood
func (m *Manager) Preferences(ctx context.Context, mood Mood) (*PreferenceTable, error) {
	for _, p := range m.providers {
		table, err := p.GetPreferences(ctx, mood)
		if err == nil {
			return table, nil
		}
		log.Debug().Err(err).Str("DatasetType", p.DatasetType()).Str("Mood", string(mood)).Msg("provider does not have preference table")
	}

	return nil, fmt.Errorf("%w: no provider has preferences for %s", ErrUnknownDataset, mood)
}

// BanditResults retrieves stored bandit arm statistics for the given dataset
func (m *Manager) BanditResults(ctx context.Context, dataset string) (map[string]ArmStats, error) {
	for _, p := range m.providers {
		results, err := p.GetBanditResults(ctx, dataset)
		if err == nil {
			return results, nil
		}
		log.Debug().Err(err).Str("DatasetType", p.DatasetType()).Str("Dataset", dataset).Msg("provider does not have bandit results")
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
}

// Validate checks the History invariants: every table has all metric columns,
// at least one row, and strictly positive prices
func (h History) Validate() error {
	for ticker, table := range h {
		if table.Len() == 0 {
			return fmt.Errorf("%w: %s has no rows", ErrMalformedArchive, ticker)
		}

		for _, metric := range Metrics {
			colIdx := table.ColIndex(string(metric))
			if colIdx == -1 {
				return fmt.Errorf("%w: %s is missing the %s column", ErrMalformedArchive, ticker, metric)
			}

			for _, v := range table.Vals[colIdx] {
				if v <= 0 {
					return fmt.Errorf("%w: %s has a non-positive %s price", ErrMalformedArchive, ticker, metric)
				}
			}
		}
	}

	return nil
}
