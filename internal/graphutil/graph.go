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

// Package graphutil answers graph-shaped questions about a function's CFG:
// which blocks the entry reaches, and whether the control flow loops.
package graphutil

import (
	"github.com/gmh5225/caracal/analysis/sierra"
	"github.com/gmh5225/caracal/internal/funcutil"
	"github.com/yourbasic/graph"
)

// asGraph converts the CFG's successor relation to a dense graph, returning
// the graph, the block id of each dense vertex, and the dense vertex of each
// block id.
func asGraph(cfg *sierra.CFG) (*graph.Mutable, []int, map[int]int) {
	blocks := cfg.Blocks()
	ids := make([]int, len(blocks))
	dense := make(map[int]int, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID()
		dense[b.ID()] = i
	}
	g := graph.New(len(blocks))
	for i, b := range blocks {
		for _, s := range b.Successors() {
			g.Add(i, dense[s])
		}
	}
	return g, ids, dense
}

// ReachableBlocks returns the set of block ids reachable from the entry
// block, entry included.
func ReachableBlocks(cfg *sierra.CFG) map[int]bool {
	reachable := map[int]bool{}
	entry := cfg.Entry()
	if entry == nil {
		return reachable
	}
	g, ids, dense := asGraph(cfg)
	reachable[entry.ID()] = true
	graph.BFS(g, dense[entry.ID()], func(_, w int, _ int64) {
		reachable[ids[w]] = true
	})
	return reachable
}

// OrphanBlocks returns the ids of blocks the entry block cannot reach, in
// offset order. A well-formed function has none unless the source IR itself
// contains dead code.
func OrphanBlocks(cfg *sierra.CFG) []int {
	reachable := ReachableBlocks(cfg)
	orphans := map[int]bool{}
	for _, b := range cfg.Blocks() {
		if !reachable[b.ID()] {
			orphans[b.ID()] = true
		}
	}
	// Block ids are offsets, so sorted order is offset order.
	return funcutil.SetToOrderedSlice(orphans)
}

// HasLoop reports whether the CFG contains a cycle.
func HasLoop(cfg *sierra.CFG) bool {
	if len(cfg.Blocks()) == 0 {
		return false
	}
	g, _, _ := asGraph(cfg)
	return !graph.Acyclic(g)
}
