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

package spatialindex

import "errors"

var (
	// ErrMissingID is returned when inserting a geometry without an id.
	ErrMissingID = errors.New("spatialindex: geometry has no id")

	// ErrInvalidBounds is returned for unordered or non-finite bounds.
	ErrInvalidBounds = errors.New("spatialindex: invalid bounds")

	// ErrInvalidTolerance is returned for a negative or NaN search tolerance.
	ErrInvalidTolerance = errors.New("spatialindex: invalid tolerance")

	// ErrBuildFailed is returned when the tree could not be bulk-loaded.
	ErrBuildFailed = errors.New("spatialindex: tree build failed")
)
