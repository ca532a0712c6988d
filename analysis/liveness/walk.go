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
	"fmt"

	"github.com/seqlabs/ir-go-tools/analysis/cfg"
	"github.com/seqlabs/ir-go-tools/analysis/config"
	"github.com/seqlabs/ir-go-tools/analysis/ir"
	"github.com/seqlabs/ir-go-tools/analysis/mutability"
)

// Options are the collaborator hooks of a liveness computation. The zero value uses a
// fresh oracle with default settings, the basic classifier and no extension handler.
type Options struct {
	// Oracle answers which call argument positions are never mutated. If nil, a
	// default oracle with a fresh memo table is used.
	Oracle *mutability.Oracle

	// Classifier maps expressions to value kinds for the oracle. If nil,
	// ir.BasicClassifier with no kind table is used.
	Classifier ir.Classifier

	// Handler gets the first shot at node kinds the walker does not know.
	Handler ir.Handler

	// RefParams are reference parameters supplied by the function-signature
	// collaborator, merged with those extracted from the entry node.
	RefParams []ir.VarID

	// Logger receives debug output. If nil, nothing is logged.
	Logger *config.LogGroup
}

// walkState is the transient traversal state of one analysis invocation. It is not part
// of the returned result.
type walkState struct {
	cur        *Block
	read       bool
	refParams  VarSet
	oracle     *mutability.Oracle
	classifier ir.Classifier
	handler    ir.Handler
	log        *config.LogGroup
}

// Compute analyzes the graph and returns the liveness of every block and statement.
// The graph is borrowed read-only for the duration of the call.
func Compute(g *cfg.Graph, opts Options) (*BlockLiveness, error) {
	res := &BlockLiveness{
		graph:  g,
		blocks: make(map[cfg.BlockID]*Block, g.NumBlocks()),
	}
	st := &walkState{
		read:       true,
		refParams:  NewVarSet(opts.RefParams...),
		oracle:     opts.Oracle,
		classifier: opts.Classifier,
		handler:    opts.Handler,
		log:        opts.Logger,
	}
	if st.oracle == nil {
		st.oracle = mutability.NewOracle(mutability.Config{}, nil)
	}
	if st.classifier == nil {
		st.classifier = ir.BasicClassifier{}
	}

	for _, block := range g.Blocks() {
		b := &Block{
			Def:   NewVarSet(),
			Use:   NewVarSet(),
			block: block,
		}
		res.blocks[block.ID] = b
		st.cur = b
		for _, stmt := range block.Stmts {
			b.Stmts = append(b.Stmts, &Statement{
				Def:  NewVarSet(),
				Use:  NewVarSet(),
				stmt: stmt,
			})
			if err := st.walk(stmt.Node); err != nil {
				return nil, fmt.Errorf("block %d, statement %d: %w", block.ID, stmt.Index, err)
			}
		}
	}
	st.cur = nil

	res.refParams = st.refParams
	res.solve()
	return res, nil
}

// walk traverses one content node, recording accesses through recordAccess. All
// effects go through the walk state; walk returns only errors.
func (st *walkState) walk(n ir.Node) error {
	switch n := n.(type) {
	case *ir.Var:
		return st.recordAccess(n.ID, st.read)

	case *ir.Assign:
		// Right-hand side first; nested function definitions are opaque to this pass
		if _, isFuncDef := n.RHS.(*ir.FuncDef); !isFuncDef {
			if err := st.walk(n.RHS); err != nil {
				return err
			}
		}
		saved := st.read
		st.read = false
		err := st.walk(n.LHS)
		st.read = saved
		return err

	case *ir.Call:
		return st.walkCall(n)

	case *ir.Branch:
		// Branch edges are CFG structure; only the condition is content
		return st.walk(n.Cond)

	case *ir.Return:
		saved := st.read
		st.read = true
		for _, res := range n.Results {
			if err := st.walk(res); err != nil {
				st.read = saved
				return err
			}
		}
		st.read = saved
		return nil

	case *ir.Entry:
		// Parameters are caller-defined storage, not accesses; only the
		// reference parameters matter, for the exit block's live-out
		st.refParams.UnionWith(NewVarSet(n.RefParams...))
		return nil

	case *ir.AccessSummary:
		for _, v := range n.Uses {
			if err := st.recordAccess(v, true); err != nil {
				return err
			}
		}
		for _, v := range n.Defs {
			if err := st.recordAccess(v, false); err != nil {
				return err
			}
		}
		return nil

	case *ir.TypeAnnot:
		return st.walk(n.X)

	case *ir.FieldAlias:
		return st.walk(n.Base)

	case *ir.Literal, *ir.LineMarker, *ir.ModuleRef, *ir.Quote, *ir.NoOp, *ir.FuncDef:
		return nil

	default:
		if st.handler != nil {
			if children, ok := st.handler.TryHandle(n); ok {
				for _, c := range children {
					if err := st.walk(c); err != nil {
						return err
					}
				}
				return nil
			}
		}
		return &UnsupportedNodeError{NodeKind: n.Kind()}
	}
}

// walkCall visits a call's arguments. Every argument is visited once as a read; the
// argument positions the oracle cannot prove unmodified are visited a second time as
// writes, capturing in/out and mutate-in-place semantics.
func (st *walkState) walkCall(call *ir.Call) error {
	kinds := make([]ir.ValueKind, len(call.Args))
	for i, arg := range call.Args {
		kinds[i] = st.classifier.KindOf(arg)
	}
	unmodified, err := st.oracle.UnmodifiedPositions(call.Callee, kinds)
	if err != nil {
		return err
	}
	if st.log != nil {
		st.log.Tracef("call %s: unmodified positions %v", call.Callee, unmodified)
	}

	saved := st.read
	defer func() { st.read = saved }()
	for i, arg := range call.Args {
		st.read = true
		if err := st.walk(arg); err != nil {
			return err
		}
		if !unmodified[i] {
			st.read = false
			if err := st.walk(arg); err != nil {
				return err
			}
		}
	}
	return nil
}
