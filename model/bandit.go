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
	"fmt"

	"github.com/goccy/go-json"
)

// BanditModel stores per-arm outcome counts for a multi-armed bandit. The
// record only stores data; arm selection policy lives elsewhere
type BanditModel struct {
	Successes   []int   `json:"successes"`
	Failures    []int   `json:"failures"`
	ArmCount    int     `json:"armCount"`
	Exploration float64 `json:"exploration"`
}

// NewBanditModel builds a BanditModel from a field-keyed bundle. Every
// recognized field must be present
func NewBanditModel(args map[string]json.RawMessage) (*BanditModel, error) {
	bandit := &BanditModel{}

	if err := requireField(args, "successes", &bandit.Successes); err != nil {
		return nil, err
	}

	if err := requireField(args, "failures", &bandit.Failures); err != nil {
		return nil, err
	}

	if err := requireField(args, "armCount", &bandit.ArmCount); err != nil {
		return nil, err
	}

	if err := requireField(args, "exploration", &bandit.Exploration); err != nil {
		return nil, err
	}

	return bandit, nil
}

// Record stores the outcome of one pull of the given arm
func (bandit *BanditModel) Record(arm int, success bool) error {
	if arm < 0 || arm >= bandit.ArmCount || arm >= len(bandit.Successes) || arm >= len(bandit.Failures) {
		return fmt.Errorf("%w: %d (have %d arms)", ErrArmOutOfRange, arm, bandit.ArmCount)
	}

	if success {
		bandit.Successes[arm]++
	} else {
		bandit.Failures[arm]++
	}

	return nil
}

// Pulls returns the total number of recorded pulls of the given arm
func (bandit *BanditModel) Pulls(arm int) (int, error) {
	if arm < 0 || arm >= bandit.ArmCount || arm >= len(bandit.Successes) || arm >= len(bandit.Failures) {
		return 0, fmt.Errorf("%w: %d (have %d arms)", ErrArmOutOfRange, arm, bandit.ArmCount)
	}

	return bandit.Successes[arm] + bandit.Failures[arm], nil
}
