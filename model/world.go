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

package model

import (
	"github.com/goccy/go-json"
	"github.com/sim-vault/sv-api/data"
)

// WorldModel describes the market environment a simulation operates in
type WorldModel struct {
	Tickers      []string                          `json:"tickers"`
	RiskFreeRate float64                           `json:"riskFreeRate"`
	TimeStep     float64                           `json:"timeStep"`
	MarketFactor float64                           `json:"marketFactor"`
	SingleIndex  map[string]data.SingleIndexParams `json:"singleIndex"`
	BufferSize   int                               `json:"bufferSize"`
	RiskScore    map[string]float64                `json:"riskScore"`

	// Reward is injected, not part of the serialized bundle
	Reward RewardModel `json:"-"`
}

// NewWorldModel builds a WorldModel from a field-keyed bundle and an injected
// reward model. Every recognized field must be present
func NewWorldModel(args map[string]json.RawMessage, reward RewardModel) (*WorldModel, error) {
	world := &WorldModel{
		Reward: reward,
	}

	if err := requireField(args, "tickers", &world.Tickers); err != nil {
		return nil, err
	}

	if err := requireField(args, "riskFreeRate", &world.RiskFreeRate); err != nil {
		return nil, err
	}

	if err := requireField(args, "timeStep", &world.TimeStep); err != nil {
		return nil, err
	}

	if err := requireField(args, "marketFactor", &world.MarketFactor); err != nil {
		return nil, err
	}

	if err := requireField(args, "singleIndex", &world.SingleIndex); err != nil {
		return nil, err
	}

	if err := requireField(args, "bufferSize", &world.BufferSize); err != nil {
		return nil, err
	}

	if err := requireField(args, "riskScore", &world.RiskScore); err != nil {
		return nil, err
	}

	return world, nil
}
