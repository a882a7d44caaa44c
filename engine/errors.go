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

package engine

import (
	"errors"
)

var (
	// ErrDisposed is returned by mutations on an engine after Dispose.
	ErrDisposed = errors.New("engine disposed")
	// ErrInternal wraps a panic recovered from the index during a mutation.
	ErrInternal = errors.New("internal index failure")
)

// Error is the error returned by failed engine mutations. Op names the
// public method that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "snap engine: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
