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

package handler

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/allocation"
	"github.com/sim-vault/sv-api/backtest"
	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/model"
	"github.com/sim-vault/sv-api/observability/opentelemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var manager *data.Manager

// Setup stores the data manager used to resolve dataset references in
// allocation requests
func Setup(m *data.Manager) {
	manager = m
}

// allocationRequest is the body of POST /v1/allocations. The investor bundle
// may reference a dataset instead of carrying market data inline
type allocationRequest struct {
	Day      int                        `json:"day"`
	Dataset  string                     `json:"dataset,omitempty"`
	Config   json.RawMessage            `json:"config,omitempty"`
	Investor map[string]json.RawMessage `json:"investor"`
}

// simulationRequest is the body of POST /v1/simulations
type simulationRequest struct {
	Begin    int                        `json:"begin"`
	End      int                        `json:"end"`
	Dataset  string                     `json:"dataset,omitempty"`
	Config   json.RawMessage            `json:"config,omitempty"`
	Investor map[string]json.RawMessage `json:"investor"`
}

// resolveConfig overlays a partially-specified request config onto the engine
// defaults so omitted options keep their default values
func resolveConfig(raw json.RawMessage) (allocation.Config, error) {
	cfg := allocation.DefaultConfig()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// ListMoods returns the recognized moods
func ListMoods(c *fiber.Ctx) error {
	return c.JSON(data.Moods)
}

// ListConventions returns the recognized fill-price conventions
func ListConventions(c *fiber.Ctx) error {
	return c.JSON([]allocation.FillPrice{
		allocation.FillRandom,
		allocation.FillOpen,
		allocation.FillClose,
		allocation.FillHigh,
		allocation.FillLow,
		allocation.FillVWAP,
	})
}

// statusFromError maps engine errors to HTTP statuses
func statusFromError(err error) *fiber.Error {
	switch {
	case errors.Is(err, allocation.ErrUnknownConvention),
		errors.Is(err, data.ErrUnknownMood),
		errors.Is(err, model.ErrMissingField),
		errors.Is(err, backtest.ErrInvalidDayRange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, data.ErrNotFound),
		errors.Is(err, data.ErrDayOutOfRange),
		errors.Is(err, data.ErrMissingPreference),
		errors.Is(err, data.ErrUnknownDataset):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.ErrInternalServerError
	}
}

// RunAllocation computes a one-day share allocation
func RunAllocation(c *fiber.Ctx) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(c.Context(), "handler.RunAllocation",
		trace.WithAttributes(opentelemetry.SpanAttributesFromFiber(c)...))
	defer span.End()

	req := &allocationRequest{}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		log.Warn().Err(err).Msg("cannot parse allocation request body")
		return fiber.ErrBadRequest
	}

	if err := data.ResolveBundle(c.Context(), manager, req.Dataset, req.Investor); err != nil {
		log.Warn().Err(err).Str("Dataset", req.Dataset).Msg("cannot resolve dataset")
		return statusFromError(err)
	}

	investor, err := model.NewInvestorContext(req.Investor)
	if err != nil {
		log.Warn().Err(err).Msg("cannot construct investor context")
		return statusFromError(err)
	}

	cfg, err := resolveConfig(req.Config)
	if err != nil {
		log.Warn().Err(err).Msg("cannot parse allocation config")
		return fiber.ErrBadRequest
	}

	result, err := allocation.Shares(ctx, req.Day, investor, cfg)
	if err != nil {
		log.Warn().Err(err).Int("Day", req.Day).Msg("allocation failed")
		return statusFromError(err)
	}

	return c.JSON(result)
}

// RunSimulation runs the allocation engine over a day range
func RunSimulation(c *fiber.Ctx) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(c.Context(), "handler.RunSimulation",
		trace.WithAttributes(opentelemetry.SpanAttributesFromFiber(c)...))
	defer span.End()

	req := &simulationRequest{}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		log.Warn().Err(err).Msg("cannot parse simulation request body")
		return fiber.ErrBadRequest
	}

	if err := data.ResolveBundle(c.Context(), manager, req.Dataset, req.Investor); err != nil {
		log.Warn().Err(err).Str("Dataset", req.Dataset).Msg("cannot resolve dataset")
		return statusFromError(err)
	}

	investor, err := model.NewInvestorContext(req.Investor)
	if err != nil {
		log.Warn().Err(err).Msg("cannot construct investor context")
		return statusFromError(err)
	}

	cfg, err := resolveConfig(req.Config)
	if err != nil {
		log.Warn().Err(err).Msg("cannot parse simulation config")
		return fiber.ErrBadRequest
	}

	bt, err := backtest.Run(ctx, req.Begin, req.End, investor, cfg)
	if err != nil {
		log.Warn().Err(err).Int("Begin", req.Begin).Int("End", req.End).Msg("simulation failed")
		return statusFromError(err)
	}

	return c.JSON(bt)
}
