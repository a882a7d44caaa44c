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

package snap

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestClampTolerance(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, MinTolerance},
		{-5, MinTolerance},
		{0.5, MinTolerance},
		{1, 1},
		{42, 42},
		{100, 100},
		{1000, MaxTolerance},
		{math.Inf(1), MaxTolerance},
		{math.NaN(), DefaultTolerance},
	}
	for _, test := range tests {
		if got := ClampTolerance(test.in); got != test.want {
			t.Errorf("ClampTolerance(%v) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestTargetPriority(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		typ  TargetType
		want float64
	}{
		{TargetEndpoint, 80},
		{TargetVertex, 80},
		{TargetMidpoint, 80},
		{TargetCenter, 81},
		{TargetNearest, 30},
		{TargetGrid, 20},
		{TargetIntersection, 70},
		{TargetNone, 0},
	}
	for _, test := range tests {
		if got := cfg.TargetPriority(test.typ); math.Abs(got-test.want) > epsilon {
			t.Errorf("TargetPriority(%v) = %v, want %v", test.typ, got, test.want)
		}
	}

	cfg.Apply(WithPriority(TargetEndpoint, 250))
	if got := cfg.Weight(TargetEndpoint); got != MaxWeight {
		t.Errorf("weight above range = %v, want %v", got, MaxWeight)
	}
	cfg.Apply(WithPriority(TargetEndpoint, -1))
	if got := cfg.TargetPriority(TargetEndpoint); got != 0 {
		t.Errorf("TargetPriority with negative weight = %v, want 0", got)
	}

	empty := Config{}
	if got := empty.TargetPriority(TargetCenter); got != BasePriority(TargetCenter) {
		t.Errorf("TargetPriority without weights = %v, want the base priority", got)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(
		WithTolerance(500),
		WithMaxResults(-3),
		WithSnapType(TargetNearest, true),
		WithSnapType(TargetMidpoint, false),
		WithGridSpacing(math.Inf(1)),
		WithDebugMode(true),
	)
	if cfg.Tolerance != MaxTolerance {
		t.Errorf("Tolerance = %v, want %v", cfg.Tolerance, MaxTolerance)
	}
	if cfg.MaxResults != 1 {
		t.Errorf("MaxResults = %v, want 1", cfg.MaxResults)
	}
	if !cfg.EnabledTypes.Has(TargetNearest) || cfg.EnabledTypes.Has(TargetMidpoint) {
		t.Errorf("EnabledTypes = %v", cfg.EnabledTypes)
	}
	if cfg.GridSpacing != 0 {
		t.Errorf("GridSpacing = %v, want 0", cfg.GridSpacing)
	}
	if !cfg.DebugMode {
		t.Errorf("DebugMode = false")
	}
}

func TestConfigNormalized(t *testing.T) {
	raw := Config{
		Tolerance:   500,
		MaxResults:  0,
		Priority:    map[TargetType]float64{TargetEndpoint: 250, TargetGrid: -4},
		GridSpacing: math.NaN(),
	}
	got := raw.Normalized()
	if got.Tolerance != MaxTolerance {
		t.Errorf("Tolerance = %v, want %v", got.Tolerance, MaxTolerance)
	}
	if got.MaxResults != 1 {
		t.Errorf("MaxResults = %v, want 1", got.MaxResults)
	}
	if w := got.Weight(TargetEndpoint); w != MaxWeight {
		t.Errorf("Weight(endpoint) = %v, want %v", w, MaxWeight)
	}
	if w := got.Weight(TargetGrid); w != 0 {
		t.Errorf("Weight(grid) = %v, want 0", w)
	}
	if got.GridSpacing != 0 {
		t.Errorf("GridSpacing = %v, want 0", got.GridSpacing)
	}
	if raw.Priority[TargetEndpoint] != 250 {
		t.Errorf("Normalized modified the receiver's priority map")
	}
	if zero := (Config{}).Normalized(); zero.Tolerance != MinTolerance || zero.MaxResults != 1 {
		t.Errorf("zero Config normalized = %+v", zero)
	}
}

func TestConfigClone(t *testing.T) {
	a := DefaultConfig()
	b := a.Clone()
	b.Apply(WithPriority(TargetEndpoint, 1))
	if a.Weight(TargetEndpoint) == 1 {
		t.Errorf("Clone shares the priority map")
	}

	c := NewCalculator(a)
	got := c.Config()
	got.Apply(WithPriority(TargetCenter, 1))
	if c.Config().Weight(TargetCenter) == 1 {
		t.Errorf("Calculator.Config leaks its priority map")
	}
}

func TestTypeSet(t *testing.T) {
	s := NewTypeSet(TargetEndpoint, TargetGrid, TargetNone)
	if s.Has(TargetNone) {
		t.Errorf("set holds TargetNone")
	}
	if !s.Has(TargetEndpoint) || !s.Has(TargetGrid) || s.Has(TargetCenter) {
		t.Errorf("membership of %v is wrong", s)
	}
	if got, want := s.String(), "{endpoint,grid}"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	s = s.Without(TargetEndpoint).With(TargetEdge)
	if diff := cmp.Diff([]TargetType{TargetGrid, TargetEdge}, s.Types()); diff != "" {
		t.Errorf("Types mismatch (-want +got):\n%s", diff)
	}
	if got := NewTypeSet(AllTargetTypes()...).Types(); len(got) != int(numTargetTypes)-1 {
		t.Errorf("full set has %d types", len(got))
	}
}

func TestParseTargetType(t *testing.T) {
	for _, typ := range AllTargetTypes() {
		got, err := ParseTargetType(" " + typ.String() + " ")
		if err != nil || got != typ {
			t.Errorf("ParseTargetType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseTargetType("MIDPOINT"); err != nil {
		t.Errorf("ParseTargetType is case sensitive: %v", err)
	}
	if _, err := ParseTargetType("bogus"); !errors.Is(err, ErrUnknownTargetType) {
		t.Errorf("ParseTargetType(bogus) error = %v, want %v", err, ErrUnknownTargetType)
	}
	if _, err := ParseTargetType(""); err == nil {
		t.Errorf("ParseTargetType(\"\") succeeded")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		level      PerformanceLevel
		maxResults int
		has        []TargetType
		hasNot     []TargetType
	}{
		{PerformanceLow, 10, []TargetType{TargetEndpoint, TargetCenter}, []TargetType{TargetMidpoint, TargetNearest}},
		{PerformanceBalanced, DefaultMaxResults, []TargetType{TargetMidpoint, TargetVertex}, []TargetType{TargetNearest}},
		{PerformanceHigh, 100, []TargetType{TargetNearest}, []TargetType{TargetTangent}},
		{PerformanceUltra, 250, []TargetType{TargetPerpendicular, TargetTangent}, []TargetType{TargetGrid}},
	}
	for _, test := range tests {
		cfg := Preset(test.level)
		if cfg.PerformanceLevel != test.level {
			t.Errorf("Preset(%v).PerformanceLevel = %v", test.level, cfg.PerformanceLevel)
		}
		if cfg.MaxResults != test.maxResults {
			t.Errorf("Preset(%v).MaxResults = %v, want %v", test.level, cfg.MaxResults, test.maxResults)
		}
		if cfg.Tolerance != DefaultTolerance {
			t.Errorf("Preset(%v).Tolerance = %v", test.level, cfg.Tolerance)
		}
		for _, typ := range test.has {
			if !cfg.EnabledTypes.Has(typ) {
				t.Errorf("Preset(%v) lacks %v", test.level, typ)
			}
		}
		for _, typ := range test.hasNot {
			if cfg.EnabledTypes.Has(typ) {
				t.Errorf("Preset(%v) enables %v", test.level, typ)
			}
		}
	}

	if got := Preset("warp"); got.PerformanceLevel != PerformanceBalanced {
		t.Errorf("unknown preset level = %v, want balanced", got.PerformanceLevel)
	}
	if _, err := ParsePerformanceLevel("warp"); !errors.Is(err, ErrUnknownPerformanceLevel) {
		t.Errorf("ParsePerformanceLevel(warp) error = %v", err)
	}
	if l, err := ParsePerformanceLevel("Ultra"); err != nil || l != PerformanceUltra {
		t.Errorf("ParsePerformanceLevel(Ultra) = %v, %v", l, err)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
performance_level = "high"
tolerance = 12.5
max_results = 80
debug = true
grid_spacing = 5.0
enabled = ["endpoint", "Midpoint", "grid"]

[priority]
endpoint = 100.0
midpoint = 150.0
`)
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	want := Preset(PerformanceHigh)
	want.Tolerance = 12.5
	want.MaxResults = 80
	want.DebugMode = true
	want.GridSpacing = 5
	want.EnabledTypes = NewTypeSet(TargetEndpoint, TargetMidpoint, TargetGrid)
	want.Priority[TargetEndpoint] = 100
	want.Priority[TargetMidpoint] = MaxWeight

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, epsilon)); diff != "" {
		t.Errorf("ParseConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	got, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig(empty): %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("empty document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown level", `performance_level = "warp"`, ErrUnknownPerformanceLevel},
		{"unknown enabled type", `enabled = ["bogus"]`, ErrUnknownTargetType},
		{"unknown priority type", "[priority]\nbogus = 1.0", ErrUnknownTargetType},
		{"syntax", `tolerance = `, nil},
	}
	for _, test := range tests {
		_, err := ParseConfig([]byte(test.doc))
		if err == nil {
			t.Errorf("%s: ParseConfig succeeded", test.name)
			continue
		}
		if test.want != nil && !errors.Is(err, test.want) {
			t.Errorf("%s: error = %v, want %v", test.name, err, test.want)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.toml")
	if err := os.WriteFile(path, []byte("performance_level = \"low\"\ntolerance = 3.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.PerformanceLevel != PerformanceLow || cfg.Tolerance != 3 {
		t.Errorf("LoadConfigFile = %+v", cfg)
	}

	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfigFile(missing) error = %v, want not-exist", err)
	}
}
