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

// LibfuncKind describes what an operation does as far as the analyses care:
// it either calls a program function, or it is opaque.
type LibfuncKind int

const (
	// LibfuncOther is any operation the analyses do not inspect.
	LibfuncOther LibfuncKind = iota

	// LibfuncFunctionCall calls the program function named by Callee.
	LibfuncFunctionCall
)

// Libfunc is one registered operation of the program.
type Libfunc struct {
	ID     string
	Kind   LibfuncKind
	Callee string
}

// Registry resolves an invocation's libfunc id to the operation it performs.
// The registry is fully built before any analysis runs and is read-only
// afterwards.
type Registry struct {
	libfuncs map[string]Libfunc
}

// NewRegistry builds a registry from the program's declared libfuncs.
func NewRegistry(libfuncs []Libfunc) *Registry {
	m := make(map[string]Libfunc, len(libfuncs))
	for _, lf := range libfuncs {
		m[lf.ID] = lf
	}
	return &Registry{libfuncs: m}
}

// Get returns the libfunc registered under id. An unknown id is absence, not
// an error: the caller leaves the operation unclassified.
func (r *Registry) Get(id string) (Libfunc, bool) {
	lf, ok := r.libfuncs[id]
	return lf, ok
}

// FunctionCallee returns the name of the program function called by inv, if
// inv's operation is a function call.
func (r *Registry) FunctionCallee(inv *Invocation) (string, bool) {
	lf, ok := r.libfuncs[inv.Libfunc]
	if !ok || lf.Kind != LibfuncFunctionCall {
		return "", false
	}
	return lf.Callee, true
}
