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
	"errors"
	"fmt"
)

var (
	// ErrMalformedAccess reports an access recorded in a block with no started
	// statement. This indicates a bug in the traversal driver, not in the input.
	ErrMalformedAccess = errors.New("access recorded outside any statement")

	// ErrReadAfterWrite reports a variable read after a write within one statement.
	// The statement-level representation is assumed to never reread a just-written
	// temporary; a violation means the input is malformed or unsupported.
	ErrReadAfterWrite = errors.New("variable read after write within one statement")

	// ErrNotFound reports a failed lookup by block or statement identity. It is the
	// only recoverable error of the package.
	ErrNotFound = errors.New("not found")
)

// An UnsupportedNodeError reports a node kind with no built-in handling rule that the
// extension handler also declined. It is always fatal for the current function.
type UnsupportedNodeError struct {
	NodeKind string
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported node kind %q", e.NodeKind)
}
