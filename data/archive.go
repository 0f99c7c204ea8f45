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
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/common"
	"github.com/sim-vault/sv-api/dataframe"
	"github.com/zeebo/blake3"
)

// archiveTable is the serialized form of one ticker's price history
type archiveTable struct {
	Dates []time.Time `json:"dates"`
	Open  []float64   `json:"open"`
	High  []float64   `json:"high"`
	Low   []float64   `json:"low"`
	Close []float64   `json:"close"`
	VWAP  []float64   `json:"vwap"`
}

// archiveDoc is the serialized form of one dataset
type archiveDoc struct {
	Tickers     map[string]archiveTable `json:"tickers"`
	Preferences *PreferenceTable        `json:"preferences,omitempty"`
	Bandit      map[string]ArmStats     `json:"bandit,omitempty"`
}

// ArchiveStore reads lz4-compressed json archives from a directory; one file
// per dataset, named <dataset>.json.lz4. Loaded documents are cached through
// the common cache
type ArchiveStore struct {
	path string
}

// NewArchiveStore creates an archive store rooted at the given directory
func NewArchiveStore(path string) *ArchiveStore {
	return &ArchiveStore{
		path: path,
	}
}

func (store *ArchiveStore) DatasetType() string {
	return "archive"
}

// load reads the raw json document for a dataset, consulting the cache first
func (store *ArchiveStore) load(dataset string) (*archiveDoc, error) {
	key := fmt.Sprintf("archive:%s", dataset)

	raw, err := common.CacheGet(key)
	if err != nil {
		fn := filepath.Join(store.path, fmt.Sprintf("%s.json.lz4", dataset))
		compressed, err := os.ReadFile(fn)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
		}

		raw, err = common.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrMalformedArchive, dataset, err)
		}

		fingerprint := blake3.Sum256(raw)
		log.Debug().Str("Dataset", dataset).Str("File", fn).Str("Hash", hex.EncodeToString(fingerprint[:])).Msg("loaded archive from disk")

		if err := common.CacheSet(key, raw); err != nil {
			log.Warn().Err(err).Str("Dataset", dataset).Msg("could not cache archive")
		}
	}

	doc := &archiveDoc{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrMalformedArchive, dataset, err)
	}

	return doc, nil
}

// GetHistory returns the ticker-to-table map of a dataset
func (store *ArchiveStore) GetHistory(_ context.Context, dataset string) (History, error) {
	doc, err := store.load(dataset)
	if err != nil {
		return nil, err
	}

	history := make(History, len(doc.Tickers))
	for ticker, table := range doc.Tickers {
		df := dataframe.New(string(MetricOpen), string(MetricHigh), string(MetricLow), string(MetricClose), string(MetricVWAP))
		df.Dates = table.Dates
		df.Vals = [][]float64{table.Open, table.High, table.Low, table.Close, table.VWAP}
		history[ticker] = df
	}

	if err := history.Validate(); err != nil {
		return nil, err
	}

	return history, nil
}

// GetPreferences returns the preference table stored in the mood's dataset
func (store *ArchiveStore) GetPreferences(_ context.Context, mood Mood) (*PreferenceTable, error) {
	doc, err := store.load(string(mood))
	if err != nil {
		return nil, err
	}

	if doc.Preferences == nil {
		return nil, fmt.Errorf("%w: dataset %s carries no preference table", ErrMalformedArchive, mood)
	}

	for ticker, prob := range doc.Preferences.BuyProb {
		if prob < 0 || prob > 1 {
			return nil, fmt.Errorf("%w: %s buy probability %f outside [0, 1]", ErrMalformedArchive, ticker, prob)
		}
	}

	return doc.Preferences, nil
}

// GetBanditResults returns the stored bandit arm statistics of a dataset
func (store *ArchiveStore) GetBanditResults(_ context.Context, dataset string) (map[string]ArmStats, error) {
	doc, err := store.load(dataset)
	if err != nil {
		return nil, err
	}

	if doc.Bandit == nil {
		return nil, fmt.Errorf("%w: dataset %s carries no bandit results", ErrMalformedArchive, dataset)
	}

	return doc.Bandit, nil
}

// WriteArchive serializes a dataset document to <path>/<dataset>.json.lz4.
// Used by the archive build tooling and tests; readers treat archives as
// opaque blobs
func WriteArchive(path string, dataset string, history History, prefs *PreferenceTable, bandit map[string]ArmStats) error {
	doc := &archiveDoc{
		Tickers:     make(map[string]archiveTable, len(history)),
		Preferences: prefs,
		Bandit:      bandit,
	}

	for ticker, df := range history {
		doc.Tickers[ticker] = archiveTable{
			Dates: df.Dates,
			Open:  df.Col(string(MetricOpen)),
			High:  df.Col(string(MetricHigh)),
			Low:   df.Col(string(MetricLow)),
			Close: df.Col(string(MetricClose)),
			VWAP:  df.Col(string(MetricVWAP)),
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	compressed, err := common.Compress(raw)
	if err != nil {
		return err
	}

	fn := filepath.Join(path, fmt.Sprintf("%s.json.lz4", dataset))
	return os.WriteFile(fn, compressed, 0644)
}
