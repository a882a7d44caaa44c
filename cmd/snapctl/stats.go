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

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print index and configuration statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("rebuild", false, "rebuild the index before reporting")
}

func runStats(cmd *cobra.Command, args []string) error {
	rebuild, err := cmd.Flags().GetBool("rebuild")
	if err != nil {
		return fmt.Errorf("failed to get rebuild flag: %w", err)
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.engine.Dispose()

	if rebuild {
		if _, err := s.engine.RebuildIndex(); err != nil {
			return err
		}
	}

	m := s.engine.PerformanceMetrics()
	cfg := s.engine.Configuration()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "geometries:        %d (%d loaded)\n", m.IndexedCount, s.accepted)
	fmt.Fprintf(out, "tree depth:        %d (estimated %d)\n", m.TreeDepth, m.EstimatedTreeDepth)
	fmt.Fprintf(out, "rebuilds:          %d, last %v\n", m.Rebuilds, m.LastRebuildTime)
	fmt.Fprintf(out, "memory estimate:   %d bytes\n", m.MemoryUsage)
	fmt.Fprintf(out, "performance level: %s\n", cfg.PerformanceLevel)
	fmt.Fprintf(out, "tolerance:         %g\n", cfg.Tolerance)
	fmt.Fprintf(out, "max results:       %d\n", cfg.MaxResults)
	fmt.Fprintf(out, "enabled types:     %s\n", cfg.EnabledTypes)
	return nil
}
