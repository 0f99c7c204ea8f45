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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/common"
	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/handler"
	"github.com/sim-vault/sv-api/middleware"
	"github.com/sim-vault/sv-api/observability/opentelemetry"
	"github.com/sim-vault/sv-api/router"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

// warmArchives pre-loads every mood's archive so the first request doesn't
// pay the disk read
func warmArchives(manager *data.Manager) {
	ctx := context.Background()
	for _, mood := range data.Moods {
		if _, err := manager.History(ctx, string(mood)); err != nil {
			log.Warn().Err(err).Str("Mood", string(mood)).Msg("could not warm archive")
		}
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sv-api server",
	Long:  `Run HTTP server that implements the Sim Vault allocation API`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Fatal().Err(err).Msg("could not initialize tracing")
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Error().Err(err).Msg("could not shutdown tracing")
				}
			}()
		}

		// Initialize data framework
		manager := data.NewManager()
		manager.RegisterProvider(data.NewArchiveStore(viper.GetString("archive.path")))
		handler.Setup(manager)
		warmArchives(manager)
		log.Info().Msg("initialized data framework")

		// Create new Fiber instance
		app := fiber.New()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown server")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "http://localhost:8080",
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app)

		// schedule a nightly archive re-read so new data is picked up
		scheduler := gocron.NewScheduler(time.UTC)
		scheduler.Every(1).Day().At("01:00").Do(func() {
			common.CachePurge()
			warmArchives(manager)
		})
		scheduler.StartAsync()

		err := app.Listen(fmt.Sprintf(":%d", viper.GetInt("server.port")))
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	},
}
