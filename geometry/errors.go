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

package geometry

import "errors"

var (
	// ErrUnknownKind is returned for a missing shape or an unrecognized kind name.
	ErrUnknownKind = errors.New("geometry: unknown shape kind")

	// ErrEmptyShape is returned when a vertex-based shape has no vertices.
	ErrEmptyShape = errors.New("geometry: shape has no vertices")
)
