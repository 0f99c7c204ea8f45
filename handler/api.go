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

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sim-vault/sv-api/common"
)

// Ping responds to health checks
func Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"version": common.CurrentVersion.String(),
	})
}

// BanditResults returns the stored bandit arm statistics of a dataset
func BanditResults(c *fiber.Ctx) error {
	dataset := c.Params("dataset")

	results, err := manager.BanditResults(c.Context(), dataset)
	if err != nil {
		return statusFromError(err)
	}

	return c.JSON(results)
}
