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

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/akhenakh/geosnap/snap"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags] x y [x y ...]",
	Short: "Snap one or more cursor positions",
	Long:  `Query snaps each x y pair against the loaded geometries and prints the decision`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("want pairs of x y coordinates, got %d values", len(args))
		}
		return nil
	},
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("nearest", 0, "also list the k geometries nearest to each cursor")
}

func parseCursors(args []string) ([]orb.Point, error) {
	out := make([]orb.Point, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("x #%d: %w", i/2, err)
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("y #%d: %w", i/2, err)
		}
		out = append(out, orb.Point{x, y})
	}
	return out, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	cursors, err := parseCursors(args)
	if err != nil {
		return err
	}
	k, err := cmd.Flags().GetInt("nearest")
	if err != nil {
		return fmt.Errorf("failed to get nearest flag: %w", err)
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.engine.Dispose()

	out := cmd.OutOrStdout()
	for i, res := range s.engine.SnapPoints(cursors) {
		printResult(out, cursors[i], res)
		if k > 0 {
			for _, g := range s.engine.NearestGeometries(cursors[i], k) {
				fmt.Fprintf(out, "  near %s (%s) layer=%q\n", g.ID, g.Kind(), g.Layer)
			}
		}
	}
	return nil
}

func printResult(w io.Writer, cursor orb.Point, res snap.Result) {
	if !res.Snapped {
		fmt.Fprintf(w, "%g %g: no snap\n", cursor[0], cursor[1])
		return
	}
	id := "-"
	if res.Target.Geometry != nil {
		id = res.Target.Geometry.ID
	}
	fmt.Fprintf(w, "%g %g: %s at %g %g on %s (distance %.4g, priority %.4g)\n",
		cursor[0], cursor[1], res.SnapType, res.SnapPoint[0], res.SnapPoint[1],
		id, res.Distance, res.Target.Priority)
}
