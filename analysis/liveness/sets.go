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

package liveness

import (
	fn "github.com/seqlabs/ir-go-tools/internal/funcutil"

	"github.com/seqlabs/ir-go-tools/analysis/ir"
)

// A VarSet is a set of variable identifiers.
type VarSet map[ir.VarID]bool

// NewVarSet returns a set holding the given variables.
func NewVarSet(vs ...ir.VarID) VarSet {
	s := make(VarSet, len(vs))
	for _, v := range vs {
		s[v] = true
	}
	return s
}

// Add adds v to the set.
func (s VarSet) Add(v ir.VarID) {
	s[v] = true
}

// Has returns true when v is in the set.
func (s VarSet) Has(v ir.VarID) bool {
	return s[v]
}

// UnionWith adds all elements of o to s.
func (s VarSet) UnionWith(o VarSet) {
	fn.Union(s, o)
}

// Copy returns an independent copy of the set.
func (s VarSet) Copy() VarSet {
	c := make(VarSet, len(s))
	for v := range s {
		c[v] = true
	}
	return c
}

// Equal returns true when s and o hold the same variables.
func (s VarSet) Equal(o VarSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o[v] {
			return false
		}
	}
	return true
}

// Sorted returns the elements of the set in sorted order, for deterministic output.
func (s VarSet) Sorted() []ir.VarID {
	return fn.SortedKeys(s)
}
