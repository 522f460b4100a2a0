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

// Package sierra models the typed, stack-based intermediate representation
// consumed by the analyses: statements and their control-flow branches, the
// operation registry that resolves invocations, function roles and
// signatures, and the per-function control-flow graph.
package sierra

import (
	"fmt"
	"strings"
)

// Fallthrough marks a branch that continues at the next statement instead of
// jumping to an explicit offset.
const Fallthrough = -1

// Branch is one control-flow continuation of an invocation. Target is an
// absolute statement offset, or Fallthrough. Results are the variables bound
// on that branch.
type Branch struct {
	Target  int
	Results []string
}

// Invocation applies the libfunc identified by Libfunc to the argument
// variables and continues along one of Branches. Straight-line statements
// have a single Fallthrough branch.
type Invocation struct {
	Libfunc  string
	Args     []string
	Branches []Branch
}

// Return ends a function, yielding the listed variables.
type Return struct {
	Results []string
}

// Statement is a single IR statement: exactly one of Invocation or Return is
// non-nil.
type Statement struct {
	Invocation *Invocation
	Return     *Return
}

// Invoke returns a straight-line invocation statement.
func Invoke(libfunc string, args ...string) Statement {
	return Statement{Invocation: &Invocation{
		Libfunc:  libfunc,
		Args:     args,
		Branches: []Branch{{Target: Fallthrough}},
	}}
}

// InvokeTo returns an invocation statement with explicit branch targets, in
// the order given.
func InvokeTo(libfunc string, targets []int, args ...string) Statement {
	branches := make([]Branch, 0, len(targets))
	for _, t := range targets {
		branches = append(branches, Branch{Target: t})
	}
	return Statement{Invocation: &Invocation{Libfunc: libfunc, Args: args, Branches: branches}}
}

// Ret returns a return statement.
func Ret(results ...string) Statement {
	return Statement{Return: &Return{Results: results}}
}

// IsBranching reports whether the statement can leave straight-line flow: it
// has an explicit branch target or more than one continuation.
func (s *Statement) IsBranching() bool {
	if s.Invocation == nil {
		return false
	}
	if len(s.Invocation.Branches) > 1 {
		return true
	}
	for _, b := range s.Invocation.Branches {
		if b.Target != Fallthrough {
			return true
		}
	}
	return false
}

func (s Statement) String() string {
	if s.Return != nil {
		return fmt.Sprintf("return(%s)", strings.Join(s.Return.Results, ", "))
	}
	inv := s.Invocation
	if inv == nil {
		return "<empty>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%s)", inv.Libfunc, strings.Join(inv.Args, ", "))
	for _, b := range inv.Branches {
		if b.Target == Fallthrough {
			fmt.Fprintf(&sb, " -> (%s)", strings.Join(b.Results, ", "))
		} else {
			fmt.Fprintf(&sb, " { %d(%s) }", b.Target, strings.Join(b.Results, ", "))
		}
	}
	return sb.String()
}
