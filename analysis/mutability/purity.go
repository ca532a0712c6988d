// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
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

package mutability

// wellKnownPure lists the callees that never mutate their arguments: arithmetic,
// comparison, size and aggregate reductions, and transforms with no aliasing side
// effects. The set is fixed; per-run additions go through Config.Pure.
var wellKnownPure = map[string]bool{
	// arithmetic
	"+":   true,
	"-":   true,
	"*":   true,
	"/":   true,
	"div": true,
	"mod": true,
	"rem": true,
	"abs": true,
	"neg": true,

	// comparison
	"==":      true,
	"!=":      true,
	"<":       true,
	"<=":      true,
	">":       true,
	">=":      true,
	"isequal": true,
	"isless":  true,

	// logic
	"not": true,
	"and": true,
	"or":  true,
	"xor": true,

	// size and aggregate reductions
	"length":  true,
	"size":    true,
	"count":   true,
	"min":     true,
	"max":     true,
	"minimum": true,
	"maximum": true,
	"sum":     true,
	"prod":    true,
	"reduce":  true,

	// pure transforms
	"identity": true,
	"copy":     true,
	"typeof":   true,
	"string":   true,
	"symbol":   true,
	"getfield": true,
	"getindex": true,
}

// IsWellKnownPure returns true when callee is in the fixed well-known pure set.
func IsWellKnownPure(callee string) bool {
	return wellKnownPure[callee]
}
