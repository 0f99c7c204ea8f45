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

package allocation

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sim-vault/sv-api/data"
)

// FillPrice selects which intraday price statistic represents the executed
// trade price for a day
type FillPrice string

const (
	FillRandom FillPrice = "random"
	FillOpen   FillPrice = "open"
	FillClose  FillPrice = "close"
	FillHigh   FillPrice = "high"
	FillLow    FillPrice = "low"
	FillVWAP   FillPrice = "volume_weighted_average_price"
)

// ParseFillPrice converts a string to a FillPrice; unrecognized strings
// return ErrUnknownConvention naming the offending value
func ParseFillPrice(s string) (FillPrice, error) {
	switch FillPrice(strings.ToLower(s)) {
	case FillRandom:
		return FillRandom, nil
	case FillOpen:
		return FillOpen, nil
	case FillClose:
		return FillClose, nil
	case FillHigh:
		return FillHigh, nil
	case FillLow:
		return FillLow, nil
	case FillVWAP:
		return FillVWAP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConvention, s)
	}
}

// price applies the convention to one day's price row. The random convention
// models intraday execution uncertainty as a uniform draw between the day's
// low and high
func (fp FillPrice) price(row map[string]float64, rng *rand.Rand) (float64, error) {
	switch fp {
	case FillOpen:
		return row[string(data.MetricOpen)], nil
	case FillClose:
		return row[string(data.MetricClose)], nil
	case FillHigh:
		return row[string(data.MetricHigh)], nil
	case FillLow:
		return row[string(data.MetricLow)], nil
	case FillVWAP:
		return row[string(data.MetricVWAP)], nil
	case FillRandom:
		f := rng.Float64()
		return f*row[string(data.MetricHigh)] + (1-f)*row[string(data.MetricLow)], nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownConvention, string(fp))
	}
}
