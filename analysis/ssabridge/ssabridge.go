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

// Package ssabridge builds control-flow graphs from Go SSA functions. It is a
// CFG-construction collaborator of the liveness analysis: each SSA instruction becomes
// a statement whose content is an access summary of the instruction's operands, and
// parameters whose storage is visible to the caller become reference parameters.
package ssabridge

import (
	"fmt"
	"go/types"

	"github.com/seqlabs/ir-go-tools/analysis/cfg"
	"github.com/seqlabs/ir-go-tools/analysis/ir"
	"golang.org/x/tools/go/ssa"
)

// FromFunction builds the control-flow graph of f, with a synthetic exit block joined
// to every returning block, and returns the graph together with the function's
// reference parameters.
func FromFunction(f *ssa.Function) (*cfg.Graph, []ir.VarID, error) {
	if len(f.Blocks) == 0 {
		return nil, nil, fmt.Errorf("ssabridge: function %s has no body", f.Name())
	}

	g := cfg.NewGraph()
	ids := make(map[*ssa.BasicBlock]cfg.BlockID, len(f.Blocks))
	for _, block := range f.Blocks {
		ids[block] = g.AddBlock()
	}
	exit := g.AddBlock()
	if err := g.SetExit(exit); err != nil {
		return nil, nil, err
	}

	refParams := referenceParams(f)

	index := 0
	for _, block := range f.Blocks {
		id := ids[block]
		if block == f.Blocks[0] {
			params := make([]ir.VarID, len(f.Params))
			for i, p := range f.Params {
				params[i] = ir.VarID(p.Name())
			}
			if err := g.AddStmt(id, index, &ir.Entry{Params: params, RefParams: refParams}); err != nil {
				return nil, nil, err
			}
			index++
		}
		for _, instr := range block.Instrs {
			if err := g.AddStmt(id, index, summarize(instr)); err != nil {
				return nil, nil, err
			}
			index++
		}
		for _, succ := range block.Succs {
			if err := g.AddEdge(id, ids[succ]); err != nil {
				return nil, nil, err
			}
		}
		if isReturnBlock(block) {
			if err := g.AddEdge(id, exit); err != nil {
				return nil, nil, err
			}
		}
	}
	return g, refParams, nil
}

func isReturnBlock(block *ssa.BasicBlock) bool {
	n := len(block.Instrs)
	if n == 0 {
		return false
	}
	_, ok := block.Instrs[n-1].(*ssa.Return)
	return ok
}

// summarize reduces one SSA instruction to its aggregate accesses. Stores write their
// address and read their value; every other instruction reads its local operands and
// writes the value it produces, if any.
func summarize(instr ssa.Instruction) ir.Node {
	summary := &ir.AccessSummary{}
	if store, ok := instr.(*ssa.Store); ok {
		if v, ok := localVar(store.Addr); ok {
			summary.Defs = append(summary.Defs, v)
		}
		if v, ok := localVar(store.Val); ok {
			summary.Uses = append(summary.Uses, v)
		}
		return summary
	}

	var rands []*ssa.Value
	for _, op := range instr.Operands(rands) {
		if op == nil || *op == nil {
			continue
		}
		if v, ok := localVar(*op); ok {
			summary.Uses = append(summary.Uses, v)
		}
	}
	if value, ok := instr.(ssa.Value); ok && value.Name() != "" {
		summary.Defs = append(summary.Defs, ir.VarID(value.Name()))
	}
	return summary
}

// localVar returns the variable identity of an SSA value when the value is function
// local storage; constants, globals, functions and builtins carry no liveness.
func localVar(v ssa.Value) (ir.VarID, bool) {
	switch v.(type) {
	case *ssa.Const, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return "", false
	default:
		if v.Name() == "" {
			return "", false
		}
		return ir.VarID(v.Name()), true
	}
}

// referenceParams returns the parameters whose storage the caller can observe after
// the call returns.
func referenceParams(f *ssa.Function) []ir.VarID {
	var refs []ir.VarID
	for _, p := range f.Params {
		if isAliasable(p.Type()) {
			refs = append(refs, ir.VarID(p.Name()))
		}
	}
	return refs
}

func isAliasable(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	default:
		return false
	}
}
