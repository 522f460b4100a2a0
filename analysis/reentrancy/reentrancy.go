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

// Package reentrancy is the dataflow analysis that flags externally callable
// functions performing a storage write reachable after a call that crosses a
// trust boundary (a contract call or a library call through an ABI trait).
package reentrancy

import (
	"fmt"
	"strings"

	"github.com/gmh5225/caracal/analysis/dataflow"
	"github.com/gmh5225/caracal/analysis/sierra"
)

// State is the abstract status of one basic block. The four values form a
// chain: Unvisited ⊑ Clean ⊑ CallMade ⊑ WriteAfterCall, and the join of two
// states is the larger one, so a path exhibiting the worse status dominates.
type State int

const (
	// Unvisited is the lattice bottom: no path information yet.
	Unvisited State = iota
	// Clean means no trust-boundary call was seen on any path reaching
	// this point.
	Clean
	// CallMade means at least one path reaching this point performed a
	// contract or library call, with no flagged write yet.
	CallMade
	// WriteAfterCall means a storage write happened after a
	// trust-boundary call on at least one path: the vulnerable condition.
	WriteAfterCall
)

func (s State) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case Clean:
		return "clean"
	case CallMade:
		return "call-made"
	case WriteAfterCall:
		return "write-after-call"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Analysis implements dataflow.Analysis for the reentrancy property.
type Analysis struct{}

// Bottom returns Unvisited.
func (Analysis) Bottom() State { return Unvisited }

// Initial returns Clean: at a function's entry no call has been made yet.
func (Analysis) Initial() State { return Clean }

// Join returns the larger of the two states.
func (Analysis) Join(a, b State) State {
	if a > b {
		return a
	}
	return b
}

// Equal reports whether two states are identical.
func (Analysis) Equal(a, b State) bool { return a == b }

// Transfer raises the state to at least CallMade on a contract or library
// call through an ABI trait, and to WriteAfterCall on a storage write once a
// call has been made. Every other statement leaves the state unchanged.
// Callees are resolved the same way the call classifier does: first function
// with a matching name in the whole-program list.
func (an Analysis) Transfer(state State, stmt *sierra.Statement, funcs []dataflow.View, reg *sierra.Registry) State {
	if stmt.Invocation == nil {
		return state
	}
	callee, ok := reg.FunctionCallee(stmt.Invocation)
	if !ok {
		return state
	}
	for _, f := range funcs {
		if f.Name() != callee {
			continue
		}
		switch f.Role() {
		case sierra.RoleAbiCallContract, sierra.RoleAbiLibraryCall:
			return an.Join(state, CallMade)
		case sierra.RoleStorage:
			if strings.HasSuffix(callee, sierra.StorageWriteSuffix) && state >= CallMade {
				return WriteAfterCall
			}
		}
		return state
	}
	return state
}

// Reentrant reports whether any block in the fixpoint reached
// WriteAfterCall.
func Reentrant(result map[int]State) bool {
	for _, s := range result {
		if s == WriteAfterCall {
			return true
		}
	}
	return false
}
