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

// Package dataflow implements a generic forward fixpoint solver over a
// control-flow graph. The engine knows nothing about any specific property:
// it is parameterized by an Analysis that supplies the lattice and the
// transfer function.
package dataflow

import "github.com/gmh5225/caracal/analysis/sierra"

// View is the read-only slice of a program function that an Analysis may
// inspect from its transfer function: identity and role. The engine threads
// the whole-program view through unchanged.
type View interface {
	// Name returns the function's unique name.
	Name() string

	// Role returns the function's assigned role. Calling it before the
	// whole-program role-assignment phase has run is a contract violation.
	Role() sierra.Role
}

// Analysis describes one abstract interpretation for the engine: a
// join-semilattice of states and a per-statement transfer function.
//
// Termination of the engine is a contract on the Analysis, not something the
// engine checks: the lattice must have finite height and Transfer must be
// monotone with respect to Join.
type Analysis[S any] interface {
	// Bottom returns the least lattice element, the initial state of every
	// block except the entry block.
	Bottom() S

	// Initial returns the state of the entry block before any statement
	// runs.
	Initial() S

	// Join returns the least upper bound of two states. It must be
	// commutative, associative and idempotent.
	Join(a, b S) S

	// Equal reports whether two states carry the same information. The
	// engine uses it to detect that a block's out-state stopped changing.
	Equal(a, b S) bool

	// Transfer returns the state after executing one statement in the
	// given state. funcs and reg are the frozen whole-program context so
	// the analysis can distinguish which callee an invocation targets.
	Transfer(state S, stmt *sierra.Statement, funcs []View, reg *sierra.Registry) S
}
