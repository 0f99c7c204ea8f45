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

package handler_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sim-vault/sv-api/allocation"
	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/dataframe"
	"github.com/sim-vault/sv-api/router"
)

// investorFields builds a complete single-ticker bundle. The metric columns
// carry distinct values so the selected fill price is observable
func investorFields(buyProb float64) map[string]interface{} {
	df := dataframe.New("Open", "High", "Low", "Close", "VWAP")
	for idx := 0; idx < 3; idx++ {
		date := time.Date(2022, time.January, idx+3, 0, 0, 0, 0, time.UTC)
		Expect(df.InsertRow(date, 101, 110, 90, 105, 104)).To(Succeed())
	}

	return map[string]interface{}{
		"budget":     1000.0,
		"tickers":    []string{"VFINX"},
		"marketData": data.History{"VFINX": df},
		"preferences": map[data.Mood]*data.PreferenceTable{
			data.MoodNeutral: {BuyProb: map[string]float64{"VFINX": buyProb}, Lambda: 1.0},
		},
		"marketFactor": 0.0,
		"riskFreeRate": 0.02,
		"singleIndex": map[string]data.SingleIndexParams{
			"VFINX": {Alpha: 1.0, Beta: 1.0},
		},
		"preferenceWeight": 0.0,
		"mood":             data.MoodNeutral,
		"minTradeSize":     1.0,
	}
}

func postAllocation(app *fiber.App, body map[string]interface{}) (*allocation.Result, int) {
	raw, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(fiber.MethodPost, "/v1/allocations", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	Expect(err).NotTo(HaveOccurred())

	respBody, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	result := &allocation.Result{}
	if resp.StatusCode == fiber.StatusOK {
		Expect(json.Unmarshal(respBody, result)).To(Succeed())
	}

	return result, resp.StatusCode
}

var _ = Describe("RunAllocation", func() {
	var app *fiber.App

	BeforeEach(func() {
		app = fiber.New()
		router.SetupRoutes(app)
	})

	It("applies the engine defaults when the config is omitted", func() {
		result, status := postAllocation(app, map[string]interface{}{
			"day":      1,
			"investor": investorFields(0.9),
		})

		Expect(status).To(Equal(fiber.StatusOK))
		Expect(result.Price[0]).To(Equal(104.0))
		Expect(result.Shares[0]).To(BeNumerically(">", 0))
	})

	It("keeps per-option defaults for options a partial config omits", func() {
		// cutoff raised above the 0.4 buy probability; the omitted penalty
		// must keep its -100 default, forcing a negative score
		result, status := postAllocation(app, map[string]interface{}{
			"day":      1,
			"config":   map[string]interface{}{"cutoff": 0.6},
			"investor": investorFields(0.4),
		})

		Expect(status).To(Equal(fiber.StatusOK))
		Expect(result.Shares[0]).To(Equal(0.0))
		Expect(result.Cash).To(Equal(1000.0))
	})

	It("honors an overridden fill price while keeping the other defaults", func() {
		result, status := postAllocation(app, map[string]interface{}{
			"day":      1,
			"config":   map[string]interface{}{"fillPrice": "close"},
			"investor": investorFields(0.9),
		})

		Expect(status).To(Equal(fiber.StatusOK))
		Expect(result.Price[0]).To(Equal(105.0))
		Expect(result.Shares[0]).To(BeNumerically(">", 0))
	})

	It("rejects an unparsable config", func() {
		_, status := postAllocation(app, map[string]interface{}{
			"day":      1,
			"config":   map[string]interface{}{"cutoff": "not-a-number"},
			"investor": investorFields(0.9),
		})

		Expect(status).To(Equal(fiber.StatusBadRequest))
	})
})
