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

import (
	"reflect"
	"testing"

	"github.com/gmh5225/caracal/analysis/sierra"
)

// opSet is the may-analysis used to exercise the engine: the set of libfuncs
// invoked on at least one path reaching the end of a block. Finite program,
// finite lattice, monotone transfer.
type opSet map[string]bool

type opsAnalysis struct{}

func (opsAnalysis) Bottom() opSet  { return nil }
func (opsAnalysis) Initial() opSet { return opSet{} }

func (opsAnalysis) Join(a, b opSet) opSet {
	out := opSet{}
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func (opsAnalysis) Equal(a, b opSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func (opsAnalysis) Transfer(state opSet, stmt *sierra.Statement, _ []View, _ *sierra.Registry) opSet {
	if stmt.Invocation == nil {
		return state
	}
	out := opSet{}
	for k := range state {
		out[k] = true
	}
	out[stmt.Invocation.Libfunc] = true
	return out
}

var engineRegistry = sierra.NewRegistry([]sierra.Libfunc{
	{ID: "cond"}, {ID: "jump"}, {ID: "left"}, {ID: "right"}, {ID: "dec"},
})

func names(s opSet) []string {
	var out []string
	for _, k := range []string{"cond", "jump", "left", "right", "dec"} {
		if s[k] {
			out = append(out, k)
		}
	}
	return out
}

func TestEngineDiamond(t *testing.T) {
	// 0: cond -> {2, fallthrough}; 1: left arm jumping to 4;
	// 2-3: right arm jumping to 4; 4: return.
	stmts := []sierra.Statement{
		{Invocation: &sierra.Invocation{Libfunc: "cond", Branches: []sierra.Branch{{Target: 2}, {Target: sierra.Fallthrough}}}},
		{Invocation: &sierra.Invocation{Libfunc: "left", Branches: []sierra.Branch{{Target: 4}}}},
		sierra.Invoke("right"),
		{Invocation: &sierra.Invocation{Libfunc: "jump", Branches: []sierra.Branch{{Target: 4}}}},
		sierra.Ret(),
	}
	cfg := sierra.BuildCFG(stmts, 0, engineRegistry)

	engine := NewEngine[opSet](cfg, opsAnalysis{})
	engine.Run(nil, engineRegistry)
	result := engine.Result()

	if got := names(result[0]); !reflect.DeepEqual(got, []string{"cond"}) {
		t.Errorf("entry out-state is %v, want [cond]", got)
	}
	// The merge block joins both arms.
	if got := names(result[4]); !reflect.DeepEqual(got, []string{"cond", "jump", "left", "right"}) {
		t.Errorf("merge out-state is %v, want [cond jump left right]", got)
	}
}

func TestEngineLoopTerminatesAtFixpoint(t *testing.T) {
	// 0: dec loops back to itself or falls through to the return.
	stmts := []sierra.Statement{
		{Invocation: &sierra.Invocation{Libfunc: "dec", Branches: []sierra.Branch{{Target: 0}, {Target: sierra.Fallthrough}}}},
		sierra.Ret(),
	}
	cfg := sierra.BuildCFG(stmts, 0, engineRegistry)

	an := opsAnalysis{}
	engine := NewEngine[opSet](cfg, Analysis[opSet](an))
	engine.Run(nil, engineRegistry)
	result := engine.Result()

	if got := names(result[1]); !reflect.DeepEqual(got, []string{"dec"}) {
		t.Errorf("exit out-state is %v, want [dec]", got)
	}

	// Fixpoint: one more join/transfer round changes nothing.
	preds := cfg.Predecessors()
	for _, b := range cfg.Blocks() {
		state := result[b.ID()]
		if ps := preds[b.ID()]; len(ps) > 0 {
			state = an.Bottom()
			if b.ID() == cfg.Entry().ID() {
				state = an.Initial()
			}
			for _, p := range ps {
				state = an.Join(state, result[p])
			}
		}
		stmts := b.Statements()
		for i := range stmts {
			state = an.Transfer(state, &stmts[i], nil, engineRegistry)
		}
		if !an.Equal(state, result[b.ID()]) {
			t.Errorf("block %d is not at a fixpoint: %v vs %v", b.ID(), names(state), names(result[b.ID()]))
		}
	}
}
