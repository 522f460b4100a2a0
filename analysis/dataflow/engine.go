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

package dataflow

import "github.com/gmh5225/caracal/analysis/sierra"

// Engine runs one Analysis to a fixpoint over one CFG. Build it with
// NewEngine, call Run once, then read the per-block out-states with Result.
type Engine[S any] struct {
	cfg      *sierra.CFG
	analysis Analysis[S]
	out      map[int]S
}

// NewEngine returns an engine for the given CFG and analysis.
func NewEngine[S any](cfg *sierra.CFG, analysis Analysis[S]) *Engine[S] {
	return &Engine[S]{cfg: cfg, analysis: analysis}
}

// Run iterates the worklist until no block's out-state changes. The incoming
// state of a block is the join of its predecessors' out-states; a block with
// no predecessors keeps its current state, so the entry block starts from the
// analysis' initial state. Statements are transferred in program order within
// each block.
func (e *Engine[S]) Run(funcs []View, reg *sierra.Registry) {
	blocks := e.cfg.Blocks()
	preds := e.cfg.Predecessors()

	e.out = make(map[int]S, len(blocks))
	entry := e.cfg.Entry()
	for _, b := range blocks {
		if entry != nil && b.ID() == entry.ID() {
			e.out[b.ID()] = e.analysis.Initial()
		} else {
			e.out[b.ID()] = e.analysis.Bottom()
		}
	}

	// FIFO worklist seeded with every block in offset order.
	queue := make([]int, 0, len(blocks))
	queued := make(map[int]bool, len(blocks))
	enqueue := func(id int) {
		if !queued[id] {
			queued[id] = true
			queue = append(queue, id)
		}
	}
	for _, b := range blocks {
		enqueue(b.ID())
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		block, ok := e.cfg.Block(id)
		if !ok {
			continue
		}

		state := e.out[id]
		if ps := preds[id]; len(ps) > 0 {
			// The entry block keeps its initial state joined with
			// whatever flows back into it.
			state = e.analysis.Bottom()
			if entry != nil && id == entry.ID() {
				state = e.analysis.Initial()
			}
			for _, p := range ps {
				state = e.analysis.Join(state, e.out[p])
			}
		}

		stmts := block.Statements()
		for i := range stmts {
			state = e.analysis.Transfer(state, &stmts[i], funcs, reg)
		}

		if !e.analysis.Equal(state, e.out[id]) {
			e.out[id] = state
			for _, s := range block.Successors() {
				enqueue(s)
			}
		}
	}
}

// Result returns the fixpoint: block id to out-state. The map must be
// treated as read-only.
func (e *Engine[S]) Result() map[int]S {
	return e.out
}
