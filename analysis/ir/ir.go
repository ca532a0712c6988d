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

// Package ir defines the intermediate representation the liveness analysis operates on.
// The node set is closed: every node the walker in the liveness package understands is one
// of the types below. Collaborators extend it through the [Handler] escape hatch.
package ir

// A VarID identifies one storage location. Two VarIDs are equal iff they denote the same
// location; compiler-introduced temporaries use synthetic names that cannot collide with
// source-level symbols.
type VarID string

// A Node is one node of the intermediate representation. The liveness walker dispatches
// on the concrete type; Kind is used for reporting only.
type Node interface {
	// Kind returns a short stable name for the node kind, used in errors and dumps
	Kind() string
}

// A Var is a leaf reference to a variable. Whether it is a read or a write depends on the
// position of the node in its parent, not on the node itself.
type Var struct {
	ID VarID
}

// A Literal is a constant with no liveness effect.
type Literal struct {
	Value any
}

// An Assign evaluates RHS and stores the result in the location denoted by LHS.
type Assign struct {
	LHS Node
	RHS Node
}

// A Call applies the callee to the arguments. The callee is an identity, not an
// expression: higher-order call sites are lowered before this representation.
type Call struct {
	Callee string
	Args   []Node
}

// A Branch is a conditional jump. Only the condition is part of the node; the branch
// targets are successor edges of the enclosing basic block.
type Branch struct {
	Cond Node
}

// A Return yields the results to the caller.
type Return struct {
	Results []Node
}

// A FuncDef is a nested function definition. Its body is opaque to the liveness pass.
type FuncDef struct {
	Name string
	Body any
}

// An Entry is the function-entry node. RefParams lists the parameters whose storage is
// shared with the caller; they must stay live past return.
type Entry struct {
	Params    []VarID
	RefParams []VarID
}

// An AccessSummary reports the aggregate accesses of an operation whose internals the
// walker cannot decompose. Every use is a read, every def a write.
type AccessSummary struct {
	Uses []VarID
	Defs []VarID
}

// A TypeAnnot wraps an expression with a type annotation. The annotation itself has no
// liveness effect.
type TypeAnnot struct {
	X    Node
	Type string
}

// A LineMarker is a source position marker.
type LineMarker struct {
	File string
	Line int
}

// A FieldAlias names a field of a base expression without reading or writing it.
type FieldAlias struct {
	Base  Node
	Field string
}

// A ModuleRef references a module by path.
type ModuleRef struct {
	Path []string
}

// A Quote holds a quoted value that is never evaluated.
type Quote struct {
	Value any
}

// A NoOp does nothing.
type NoOp struct{}

func (*Var) Kind() string           { return "var" }
func (*Literal) Kind() string       { return "literal" }
func (*Assign) Kind() string        { return "assign" }
func (*Call) Kind() string          { return "call" }
func (*Branch) Kind() string        { return "branch" }
func (*Return) Kind() string        { return "return" }
func (*FuncDef) Kind() string       { return "funcdef" }
func (*Entry) Kind() string         { return "entry" }
func (*AccessSummary) Kind() string { return "access-summary" }
func (*TypeAnnot) Kind() string     { return "type-annot" }
func (*LineMarker) Kind() string    { return "line" }
func (*FieldAlias) Kind() string    { return "field-alias" }
func (*ModuleRef) Kind() string     { return "module-ref" }
func (*Quote) Kind() string         { return "quote" }
func (*NoOp) Kind() string          { return "noop" }

// A Handler is the escape hatch for node kinds the walker does not know. TryHandle
// returns the sub-nodes the walker should recurse into and true when the handler
// recognized the node, or (nil, false) to decline.
type Handler interface {
	TryHandle(n Node) ([]Node, bool)
}
