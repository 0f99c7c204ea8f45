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
	"fmt"
	"strings"

	"github.com/sim-vault/sv-api/dataframe"
)

// Metric names a column of a security's price history
type Metric string

const (
	MetricOpen  Metric = "Open"
	MetricHigh  Metric = "High"
	MetricLow   Metric = "Low"
	MetricClose Metric = "Close"
	MetricVWAP  Metric = "VWAP"
)

// Metrics lists every column a price history table carries, in column order
var Metrics = []Metric{MetricOpen, MetricHigh, MetricLow, MetricClose, MetricVWAP}

// Mood names the risk attitude an investor is operating under; it selects
// which preference table and blending exponent apply
type Mood string

const (
	MoodOptimistic  Mood = "optimistic"
	MoodNeutral     Mood = "neutral"
	MoodPessimistic Mood = "pessimistic"
)

// Moods lists every recognized mood
var Moods = []Mood{MoodOptimistic, MoodNeutral, MoodPessimistic}

// ParseMood converts a string to a Mood; unrecognized strings return
// ErrUnknownMood naming the offending value
func ParseMood(s string) (Mood, error) {
	switch Mood(strings.ToLower(s)) {
	case MoodOptimistic:
		return MoodOptimistic, nil
	case MoodNeutral:
		return MoodNeutral, nil
	case MoodPessimistic:
		return MoodPessimistic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
}

// SingleIndexParams holds the intercept and market-sensitivity coefficients
// of a security's single-index return model
type SingleIndexParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// PreferenceTable holds, for one mood, the per-ticker buy probability and the
// blending exponent shared by all rows
type PreferenceTable struct {
	BuyProb map[string]float64 `json:"buyProb"`
	Lambda  float64            `json:"lambda"`
}

// History maps a ticker to its price history table; the table carries one
// column per Metric and one row per trading day
type History map[string]*dataframe.DataFrame
