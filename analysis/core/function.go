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

// Package core holds the program model: one Function per compiled function,
// carrying its role, statements, control-flow graph, classified call sites
// and analysis results, and the Program tying the frozen function list to the
// operation registry.
package core

import (
	"fmt"

	"github.com/gmh5225/caracal/analysis/dataflow"
	"github.com/gmh5225/caracal/analysis/reentrancy"
	"github.com/gmh5225/caracal/analysis/sierra"
	"github.com/gmh5225/caracal/internal/funcutil"
)

// Analyses holds the per-function analysis results. Reentrancy maps a basic
// block id to its abstract state and is populated only for external
// functions.
type Analyses struct {
	Reentrancy map[int]reentrancy.State
}

// Function is one compiled program function. It is constructed from the IR,
// mutated by exactly three ordered passes (role assignment, Analyze,
// RunAnalyses) and read-only afterwards.
type Function struct {
	decl       sierra.FuncDecl
	role       sierra.Role
	roleSet    bool
	statements []sierra.Statement
	cfg        *sierra.CFG

	// Call sites classified by callee role, in source order. Calls made
	// directly through a raw system operation are not visible here: only
	// calls routed through a resolvable function identity are classified.
	storageReads  []*sierra.Statement
	storageWrites []*sierra.Statement
	coreCalls     []*sierra.Statement
	privateCalls  []*sierra.Statement
	events        []*sierra.Statement
	externalCalls []*sierra.Statement
	libraryCalls  []*sierra.Statement

	analyses Analyses
}

// NewFunction builds a function from its declaration and statement list. The
// role is unset; all derived fields are empty until Analyze runs.
func NewFunction(decl sierra.FuncDecl, statements []sierra.Statement) *Function {
	return &Function{decl: decl, statements: statements}
}

// Name returns the function's unique name.
func (f *Function) Name() string { return f.decl.ID }

// EntryPoint returns the function's absolute entry offset.
func (f *Function) EntryPoint() int { return f.decl.EntryPoint }

// Role returns the function's role. The role is assigned exactly once, by
// the whole-program classification phase, before any analysis runs; querying
// it earlier is an invariant violation and panics.
func (f *Function) Role() sierra.Role {
	if !f.roleSet {
		panic(fmt.Sprintf("role of function %s queried before assignment", f.decl.ID))
	}
	return f.role
}

// SetRole assigns the function's role. It is called exactly once by the
// whole-program classification phase; a second call panics.
func (f *Function) SetRole(r sierra.Role) {
	if f.roleSet {
		panic(fmt.Sprintf("role of function %s assigned twice", f.decl.ID))
	}
	f.role = r
	f.roleSet = true
}

// Statements returns the function's statement list in program order.
func (f *Function) Statements() []sierra.Statement { return f.statements }

// StatementsAt returns the suffix of the statement list starting at the
// statement with absolute offset at. Used to resume scanning from dominated
// calls.
func (f *Function) StatementsAt(at int) []sierra.Statement {
	return f.statements[at-f.decl.EntryPoint:]
}

// Params returns the declared parameters without the compiler's implicit
// builtin values.
func (f *Function) Params() []sierra.Param {
	return funcutil.Filter(f.decl.Params, func(p sierra.Param) bool { return !sierra.IsBuiltin(p.Ty) })
}

// ParamsAll returns all declared parameters, builtins included.
func (f *Function) ParamsAll() []sierra.Param { return f.decl.Params }

// Returns returns the declared return types without the compiler's implicit
// builtin values.
func (f *Function) Returns() []string {
	return funcutil.Filter(f.decl.ReturnTypes, func(ty string) bool { return !sierra.IsBuiltin(ty) })
}

// ReturnsAll returns all declared return types, builtins included.
func (f *Function) ReturnsAll() []string { return f.decl.ReturnTypes }

// CFG returns the function's control-flow graph, nil until Analyze runs.
func (f *Function) CFG() *sierra.CFG { return f.cfg }

// StorageReads returns the call sites that read a storage variable.
func (f *Function) StorageReads() []*sierra.Statement { return f.storageReads }

// StorageWrites returns the call sites that write a storage variable.
func (f *Function) StorageWrites() []*sierra.Statement { return f.storageWrites }

// CoreCalls returns the call sites into the core library.
func (f *Function) CoreCalls() []*sierra.Statement { return f.coreCalls }

// PrivateCalls returns the call sites into private functions.
func (f *Function) PrivateCalls() []*sierra.Statement { return f.privateCalls }

// EventsEmitted returns the call sites that emit an event.
func (f *Function) EventsEmitted() []*sierra.Statement { return f.events }

// ExternalCalls returns the call sites that do a contract call through an
// ABI trait.
func (f *Function) ExternalCalls() []*sierra.Statement { return f.externalCalls }

// LibraryCalls returns the call sites that do a library call through an ABI
// trait.
func (f *Function) LibraryCalls() []*sierra.Statement { return f.libraryCalls }

// Analyses returns the function's analysis results.
func (f *Function) Analyses() *Analyses { return &f.analyses }

// Analyze builds the function's CFG and classifies its call sites. Every
// function in funcs must already have its role assigned.
func (f *Function) Analyze(funcs []*Function, reg *sierra.Registry) {
	f.cfg = sierra.BuildCFG(f.statements, f.decl.EntryPoint, reg)
	f.classifyCalls(funcs, reg)
}

// RunAnalyses runs the dataflow analyses over the CFG built by Analyze. Only
// external functions are attacker-reachable entry points, so everything else
// is a no-op.
func (f *Function) RunAnalyses(funcs []*Function, reg *sierra.Registry) {
	if f.Role() != sierra.RoleExternal {
		return
	}
	engine := dataflow.NewEngine[reentrancy.State](f.cfg, reentrancy.Analysis{})
	engine.Run(Views(funcs), reg)
	f.analyses.Reentrancy = engine.Result()
}

// Views adapts the function list to the read-only view the dataflow engine
// threads through to transfer functions.
func Views(funcs []*Function) []dataflow.View {
	return funcutil.Map(funcs, func(f *Function) dataflow.View { return f })
}
