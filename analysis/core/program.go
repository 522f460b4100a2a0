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

package core

import "github.com/gmh5225/caracal/analysis/sierra"

// Program is a loaded, type-checked program: the complete function list and
// the operation registry, both frozen before any analysis runs.
type Program struct {
	functions []*Function
	registry  *sierra.Registry
}

// NewProgram builds a program from its frozen function list and registry.
func NewProgram(functions []*Function, registry *sierra.Registry) *Program {
	return &Program{functions: functions, registry: registry}
}

// Functions returns the whole-program function list in program order.
func (p *Program) Functions() []*Function { return p.functions }

// Registry returns the program's operation registry.
func (p *Program) Registry() *sierra.Registry { return p.registry }

// FunctionByName returns the first function with the given name, in program
// order. Duplicate names resolve to the first match.
func (p *Program) FunctionByName(name string) (*Function, bool) {
	for _, f := range p.functions {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}
