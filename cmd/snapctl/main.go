// Copyright 2023 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command snapctl loads a geometry fixture into a snap engine and runs
// queries and diagnostics against it.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/akhenakh/geosnap/engine"
	"github.com/akhenakh/geosnap/geometry"
	"github.com/akhenakh/geosnap/snap"
)

var rootCmd = &cobra.Command{
	Use:   "snapctl",
	Short: "Query and inspect a geometry snapping engine",
	Long: `snapctl loads geometries from a TOML fixture into a snapping engine
and runs snap queries, validation and index statistics against it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)

	rootCmd.PersistentFlags().StringP("geometries", "g", "", "TOML fixture with [[geometry]] tables")
	rootCmd.PersistentFlags().StringP("config", "c", "", "TOML snap configuration file")
	rootCmd.PersistentFlags().String("transform", "identity", "cursor transform (identity|scale|platecarree|mercator)")
	rootCmd.PersistentFlags().Float64("scale", 1, "scale factor for the scale, platecarree and mercator transforms")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug mode and debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is the state shared by the subcommands.
type session struct {
	engine     *engine.Engine
	geometries []geometry.Geometry
	accepted   int
}

func newTransform(name string, scale float64) (engine.Transform, error) {
	switch name {
	case "", "identity":
		return engine.IdentityTransform{}, nil
	case "scale":
		return engine.NewScale(scale), nil
	case "platecarree":
		return engine.NewPlateCarree(scale), nil
	case "mercator":
		return engine.NewMercator(scale), nil
	}
	return nil, fmt.Errorf("unknown transform %q", name)
}

// openSession builds an engine from the persistent flags and bulk-loads the
// fixture into it.
func openSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	fixturePath, err := flags.GetString("geometries")
	if err != nil {
		return nil, fmt.Errorf("failed to get geometries flag: %w", err)
	}
	if fixturePath == "" {
		return nil, fmt.Errorf("--geometries is required")
	}
	configPath, _ := flags.GetString("config")
	transformName, _ := flags.GetString("transform")
	scale, _ := flags.GetFloat64("scale")
	debug, _ := flags.GetBool("debug")

	cfg := snap.DefaultConfig()
	if configPath != "" {
		if cfg, err = snap.LoadConfigFile(configPath); err != nil {
			return nil, err
		}
	}
	if debug {
		cfg.Apply(snap.WithDebugMode(true))
	}
	level := slog.LevelInfo
	if cfg.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	t, err := newTransform(transformName, scale)
	if err != nil {
		return nil, err
	}

	gs, err := loadFixture(fixturePath)
	if err != nil {
		return nil, err
	}
	e := engine.New(engine.WithLogger(logger), engine.WithConfig(cfg), engine.WithTransform(t))
	n, err := e.AddGeometries(gs)
	if err != nil {
		return nil, err
	}
	logger.Debug("fixture loaded", "path", fixturePath, "geometries", len(gs), "accepted", n)
	return &session{engine: e, geometries: gs, accepted: n}, nil
}
