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

import "github.com/sim-vault/sv-api/data"

// RewardModel computes the reward of taking an action in a given world state.
// Alternative reward models can be injected into a WorldModel without
// touching the record itself
type RewardModel interface {
	Reward(action int, state []float64) float64
}

// SingleIndexReward scores an action (an index into Params) as the expected
// excess return of that security under the single-index model; state[0] is
// the market factor
type SingleIndexReward struct {
	Params []data.SingleIndexParams
}

func (r *SingleIndexReward) Reward(action int, state []float64) float64 {
	if action < 0 || action >= len(r.Params) || len(state) == 0 {
		return 0
	}

	p := r.Params[action]
	return p.Alpha + p.Beta*state[0]
}
