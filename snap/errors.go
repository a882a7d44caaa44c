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

import "errors"

var (
	// ErrUnknownTargetType is returned when parsing an unrecognized target type name.
	ErrUnknownTargetType = errors.New("snap: unknown target type")

	// ErrUnknownPerformanceLevel is returned when parsing an unrecognized preset name.
	ErrUnknownPerformanceLevel = errors.New("snap: unknown performance level")
)
