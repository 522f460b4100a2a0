// Copyright the caracal authors. All Rights Reserved.
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

package sierra

import (
	"fmt"
	"sort"
)

// BasicBlock is a maximal straight-line run of statements. Its id is the
// absolute offset of its first statement.
type BasicBlock struct {
	id         int
	statements []Statement
	successors []int
}

// ID returns the block identifier, the absolute offset of the block's first
// statement.
func (b *BasicBlock) ID() int { return b.id }

// Statements returns the block's statements in program order.
func (b *BasicBlock) Statements() []Statement { return b.statements }

// Successors returns the ids of the blocks control may transfer to. Explicit
// branch targets come first, in the order the branch lists them; the
// fallthrough successor, when present, is last.
func (b *BasicBlock) Successors() []int { return b.successors }

// CFG is a function's control-flow graph: the entry block at the function's
// entry offset and the complete set of basic blocks partitioning the
// function's statement list. Built once, immutable afterwards.
type CFG struct {
	entry  int
	blocks []*BasicBlock
	index  map[int]*BasicBlock
}

// Entry returns the entry block.
func (c *CFG) Entry() *BasicBlock { return c.index[c.entry] }

// Blocks returns all basic blocks in offset order.
func (c *CFG) Blocks() []*BasicBlock { return c.blocks }

// Block returns the block with the given id.
func (c *CFG) Block(id int) (*BasicBlock, bool) {
	b, ok := c.index[id]
	return b, ok
}

// Predecessors returns, for every block id, the ids of the blocks that list
// it as a successor. The entry block may have predecessors if the function
// loops back to it.
func (c *CFG) Predecessors() map[int][]int {
	preds := make(map[int][]int, len(c.blocks))
	for _, b := range c.blocks {
		for _, s := range b.successors {
			preds[s] = append(preds[s], b.id)
		}
	}
	return preds
}

// BuildCFG partitions a function's statement list into basic blocks. The
// statements are the function's own, with stmts[i] at absolute offset
// entry+i; branch targets are absolute offsets. The registry identifies
// function-call operations, which end a block because control may diverge
// through the callee.
//
// A branch target outside [entry, entry+len(stmts)) means the loaded program
// is inconsistent with its registry; that is a fatal invariant violation, not
// a recoverable error.
func BuildCFG(stmts []Statement, entry int, reg *Registry) *CFG {
	if len(stmts) == 0 {
		return &CFG{entry: entry, index: map[int]*BasicBlock{}}
	}
	end := entry + len(stmts)

	// First pass: leaders. The entry offset, every branch target and every
	// statement following a block terminator start a block.
	leaders := map[int]bool{entry: true}
	for i := range stmts {
		off := entry + i
		s := &stmts[i]
		if !endsBlock(s, reg) {
			continue
		}
		if off+1 < end {
			leaders[off+1] = true
		}
		for _, t := range explicitTargets(s) {
			if t < entry || t >= end {
				panic(fmt.Sprintf("branch target %d out of range [%d, %d) at statement %d", t, entry, end, off))
			}
			leaders[t] = true
		}
	}

	starts := make([]int, 0, len(leaders))
	for off := range leaders {
		starts = append(starts, off)
	}
	sort.Ints(starts)

	// Second pass: cut blocks at leaders and wire successors.
	cfg := &CFG{entry: entry, index: make(map[int]*BasicBlock, len(starts))}
	for i, start := range starts {
		stop := end
		if i+1 < len(starts) {
			stop = starts[i+1]
		}
		block := &BasicBlock{id: start, statements: stmts[start-entry : stop-entry]}
		last := &block.statements[len(block.statements)-1]
		switch {
		case last.Return != nil:
			// no successors
		case last.IsBranching():
			fallthroughOff := stop
			if stop >= end {
				fallthroughOff = -1
			}
			block.successors = branchSuccessors(last, fallthroughOff)
		default:
			// Block cut by a function call or by the next leader:
			// control falls through.
			if stop < end {
				block.successors = []int{stop}
			}
		}
		cfg.blocks = append(cfg.blocks, block)
		cfg.index[block.id] = block
	}
	return cfg
}

// endsBlock reports whether the statement terminates a basic block: a
// return, a branching invocation, or a call into another program function.
func endsBlock(s *Statement, reg *Registry) bool {
	if s.Return != nil || s.IsBranching() {
		return true
	}
	if s.Invocation == nil {
		return false
	}
	_, isCall := reg.FunctionCallee(s.Invocation)
	return isCall
}

// explicitTargets returns the statement's non-fallthrough branch targets in
// the order the branch lists them.
func explicitTargets(s *Statement) []int {
	if s.Invocation == nil {
		return nil
	}
	var targets []int
	for _, b := range s.Invocation.Branches {
		if b.Target != Fallthrough {
			targets = append(targets, b.Target)
		}
	}
	return targets
}

// branchSuccessors computes the successor list of a block ending in a
// branching statement. Explicit targets keep their listed order; the
// fallthrough continuation, if any branch uses it, is appended last unless
// already present.
func branchSuccessors(s *Statement, fallthroughOff int) []int {
	succs := explicitTargets(s)
	for _, b := range s.Invocation.Branches {
		if b.Target != Fallthrough || fallthroughOff < 0 {
			continue
		}
		present := false
		for _, t := range succs {
			if t == fallthroughOff {
				present = true
				break
			}
		}
		if !present {
			succs = append(succs, fallthroughOff)
		}
		break
	}
	return succs
}
