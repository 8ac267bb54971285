// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sortedset

import "errors"

// Input-format and semantic errors the command layer returns
// synchronously, without mutating the set or emitting a delta.
// ErrInvalidRange, ErrInvalidLimit and ErrWrongType are exported
// sentinels that no function in this package returns.
var (
	ErrNotAValidFloat      = errors.New("sortedset: value is not a valid float")
	ErrOperationProducedNaN = errors.New("sortedset: operation produced NaN")
	ErrInvalidRange        = errors.New("sortedset: invalid range")
	ErrInvalidLimit        = errors.New("sortedset: invalid limit")
	ErrWrongType           = errors.New("sortedset: value is not a sorted set")
	ErrIncrRequiresOnePair = errors.New("sortedset: INCR option requires exactly one member-score pair")
)
