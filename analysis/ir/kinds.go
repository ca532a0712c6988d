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

package ir

// A ValueKind classifies the result of an expression for the argument-mutability
// heuristics. The kinds form a small lattice: Int and Float are below Number, the
// immutable kinds are below Value, and every kind is below Any.
type ValueKind int

const (
	// Invalid is the zero ValueKind
	Invalid ValueKind = iota

	// Bool is a boolean value
	Bool
	// Int is an integer value
	Int
	// Float is a floating-point value
	Float
	// String is an immutable string value
	String
	// Symbol is an interned symbol
	Symbol
	// Tuple is an immutable tuple of values
	Tuple

	// Number is the abstract kind covering Int and Float
	Number
	// Value is the abstract kind covering all immutable kinds
	Value

	// Array is a mutable indexed container
	Array
	// Map is a mutable keyed container
	Map
	// Ref is a reference cell or any other aliasable storage
	Ref
	// Closure is a closure value, which may capture mutable state
	Closure

	// Any is the top of the kind lattice
	Any
)

var kindNames = map[ValueKind]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int:     "int",
	Float:   "float",
	String:  "string",
	Symbol:  "symbol",
	Tuple:   "tuple",
	Number:  "number",
	Value:   "value",
	Array:   "array",
	Map:     "map",
	Ref:     "ref",
	Closure: "closure",
	Any:     "any",
}

func (k ValueKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// ByValue returns true when values of kind k are passed by value and cannot be mutated
// through an argument position. Abstract kinds covering only immutable kinds count as
// by-value; Any does not, since it also covers aliasable kinds.
func (k ValueKind) ByValue() bool {
	switch k {
	case Bool, Int, Float, String, Symbol, Tuple, Number, Value:
		return true
	default:
		return false
	}
}

// SubKindOf returns true when every value of kind a is also a value of kind b.
func SubKindOf(a, b ValueKind) bool {
	if a == b || b == Any {
		return true
	}
	switch b {
	case Number:
		return a == Int || a == Float
	case Value:
		return a == Bool || a == Int || a == Float || a == String || a == Symbol ||
			a == Tuple || a == Number
	}
	return false
}

// A Classifier maps expression nodes to value kinds. It stands in for the
// function-signature collaborator's type information.
type Classifier interface {
	KindOf(n Node) ValueKind
}

// BasicClassifier is a Classifier with an optional per-variable kind table. Variables
// absent from the table are classified as Ref so that unknown storage is conservatively
// treated as aliasable.
type BasicClassifier struct {
	Kinds map[VarID]ValueKind
}

// KindOf classifies n. Literals are classified by their Go value, quotes are symbols,
// call results are Any.
func (c BasicClassifier) KindOf(n Node) ValueKind {
	switch n := n.(type) {
	case *Var:
		if k, ok := c.Kinds[n.ID]; ok {
			return k
		}
		return Ref
	case *Literal:
		switch n.Value.(type) {
		case bool:
			return Bool
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return Int
		case float32, float64:
			return Float
		case string:
			return String
		default:
			return Value
		}
	case *Quote:
		return Symbol
	case *TypeAnnot:
		return c.KindOf(n.X)
	case *FuncDef:
		return Closure
	case *FieldAlias:
		return Ref
	case *Call:
		return Any
	default:
		return Any
	}
}
