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

	"github.com/akhenakh/geosnap/geometry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every fixture geometry and the resulting index",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.engine.Dispose()

	out := cmd.OutOrStdout()
	invalid := 0
	for _, g := range s.geometries {
		res := geometry.Validate(g)
		if res.Valid {
			continue
		}
		invalid++
		for _, msg := range res.Errors {
			fmt.Fprintf(out, "%s: %s\n", g.ID, msg)
		}
	}

	idx := s.engine.ValidateIndex()
	for _, msg := range idx.Errors {
		fmt.Fprintf(out, "index: %s\n", msg)
	}
	fmt.Fprintf(out, "%d geometries, %d invalid, %d indexed\n", len(s.geometries), invalid, s.engine.Len())

	if invalid > 0 || !idx.Valid {
		return fmt.Errorf("validation failed")
	}
	return nil
}
