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

package graphutil

import (
	"testing"

	"github.com/gmh5225/caracal/analysis/sierra"
)

var testRegistry = sierra.NewRegistry([]sierra.Libfunc{
	{ID: "felt252_is_zero"},
	{ID: "store_temp"},
	{ID: "jump"},
})

// diamond builds the CFG of
//
//	0: felt252_is_zero -> 1 | 3
//	1: store_temp
//	2: jump -> 4
//	3: store_temp (fallthrough)
//	4: return
func diamond() *sierra.CFG {
	stmts := []sierra.Statement{
		sierra.InvokeTo("felt252_is_zero", []int{3, sierra.Fallthrough}, "v0"),
		sierra.Invoke("store_temp", "v1"),
		sierra.InvokeTo("jump", []int{4}),
		sierra.Invoke("store_temp", "v2"),
		sierra.Ret("v3"),
	}
	return sierra.BuildCFG(stmts, 0, testRegistry)
}

func TestReachableBlocksDiamond(t *testing.T) {
	reachable := ReachableBlocks(diamond())
	for _, id := range []int{0, 1, 3, 4} {
		if !reachable[id] {
			t.Errorf("block %d should be reachable from the entry", id)
		}
	}
	if len(reachable) != 4 {
		t.Errorf("expected 4 reachable blocks, got %d", len(reachable))
	}
}

func TestOrphanBlocks(t *testing.T) {
	// Block 2 is dead: block 0 jumps straight to block 3.
	stmts := []sierra.Statement{
		sierra.InvokeTo("jump", []int{3}),
		sierra.Invoke("store_temp", "v0"),
		sierra.Ret("v0"),
		sierra.Ret("v1"),
	}
	cfg := sierra.BuildCFG(stmts, 0, testRegistry)
	orphans := OrphanBlocks(cfg)
	if len(orphans) != 1 || orphans[0] != 1 {
		t.Errorf("expected orphan blocks [1], got %v", orphans)
	}
	if orphans := OrphanBlocks(diamond()); len(orphans) != 0 {
		t.Errorf("diamond should have no orphan blocks, got %v", orphans)
	}
}

func TestOrphanBlocksOrdered(t *testing.T) {
	// Blocks 1 and 3 are both dead; they must come out in offset order.
	stmts := []sierra.Statement{
		sierra.InvokeTo("jump", []int{5}),
		sierra.Invoke("store_temp", "v0"),
		sierra.Ret("v0"),
		sierra.Invoke("store_temp", "v1"),
		sierra.Ret("v1"),
		sierra.Ret("v2"),
	}
	cfg := sierra.BuildCFG(stmts, 0, testRegistry)
	orphans := OrphanBlocks(cfg)
	if len(orphans) != 2 || orphans[0] != 1 || orphans[1] != 3 {
		t.Errorf("expected orphan blocks [1 3], got %v", orphans)
	}
}

func TestHasLoop(t *testing.T) {
	if HasLoop(diamond()) {
		t.Error("diamond is acyclic")
	}
	stmts := []sierra.Statement{
		sierra.Invoke("store_temp", "v0"),
		sierra.InvokeTo("felt252_is_zero", []int{0, sierra.Fallthrough}, "v1"),
		sierra.Ret("v2"),
	}
	if !HasLoop(sierra.BuildCFG(stmts, 0, testRegistry)) {
		t.Error("back edge to the entry should be reported as a loop")
	}
	if HasLoop(sierra.BuildCFG(nil, 0, testRegistry)) {
		t.Error("the empty CFG has no loop")
	}
}

func TestReachableBlocksEmpty(t *testing.T) {
	if n := len(ReachableBlocks(sierra.BuildCFG(nil, 0, testRegistry))); n != 0 {
		t.Errorf("the empty CFG has no reachable blocks, got %d", n)
	}
}
