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

// Package loader decodes a compiled-program artifact into the typed IR the
// analyses consume: the operation registry, the global statement list and the
// function declarations, already classified by role by the compiler. The
// loader is the privileged caller of SetRole; every function's role is
// assigned before the program is handed out.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/sierra"
)

// Artifact mirrors the JSON layout of a compiled program: the declared
// libfuncs, one global statement array shared by all functions, and the
// function declarations with absolute entry points.
type Artifact struct {
	Libfuncs   []LibfuncDecl   `json:"libfuncs"`
	Statements []StatementDecl `json:"statements"`
	Funcs      []FuncDecl      `json:"funcs"`
}

// LibfuncDecl declares one operation. Kind is "function_call" for calls into
// a program function (Callee names the target); anything else is opaque.
type LibfuncDecl struct {
	ID     string `json:"id"`
	Kind   string `json:"kind,omitempty"`
	Callee string `json:"callee,omitempty"`
}

// StatementDecl is one statement of the global statement array.
type StatementDecl struct {
	// Kind is "invocation" or "return".
	Kind     string       `json:"kind"`
	Libfunc  string       `json:"libfunc,omitempty"`
	Args     []string     `json:"args,omitempty"`
	Branches []BranchDecl `json:"branches,omitempty"`
	Results  []string     `json:"results,omitempty"`
}

// BranchDecl is one continuation of an invocation. A missing target means
// fallthrough.
type BranchDecl struct {
	Target  *int     `json:"target,omitempty"`
	Results []string `json:"results,omitempty"`
}

// FuncDecl declares one program function.
type FuncDecl struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	EntryPoint int         `json:"entry_point"`
	Params     []ParamDecl `json:"params,omitempty"`
	RetTypes   []string    `json:"ret_types,omitempty"`
}

// ParamDecl is one declared parameter.
type ParamDecl struct {
	ID string `json:"id"`
	Ty string `json:"ty"`
}

// Load reads a compiled-program artifact from a file.
func Load(path string) (*core.Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read program artifact %s: %w", path, err)
	}
	var art Artifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, fmt.Errorf("could not decode program artifact %s: %w", path, err)
	}
	return Build(&art)
}

// Build turns a decoded artifact into a program. Each function owns the
// slice of the global statement array from its entry point up to the next
// function's entry point; statement offsets stay absolute.
func Build(art *Artifact) (*core.Program, error) {
	registry := sierra.NewRegistry(libfuncs(art.Libfuncs))

	statements := make([]sierra.Statement, len(art.Statements))
	for i, sd := range art.Statements {
		s, err := statement(sd)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		statements[i] = s
	}

	decls := make([]FuncDecl, len(art.Funcs))
	copy(decls, art.Funcs)
	sort.SliceStable(decls, func(i, j int) bool { return decls[i].EntryPoint < decls[j].EntryPoint })

	var functions []*core.Function
	for i, fd := range decls {
		if fd.EntryPoint < 0 || fd.EntryPoint > len(statements) {
			return nil, fmt.Errorf("function %s: entry point %d outside statement array of length %d",
				fd.ID, fd.EntryPoint, len(statements))
		}
		stop := len(statements)
		if i+1 < len(decls) {
			stop = decls[i+1].EntryPoint
		}
		role, err := sierra.RoleFromString(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fd.ID, err)
		}
		f := core.NewFunction(sierra.FuncDecl{
			ID:          fd.ID,
			EntryPoint:  fd.EntryPoint,
			Params:      params(fd.Params),
			ReturnTypes: fd.RetTypes,
		}, statements[fd.EntryPoint:stop])
		f.SetRole(role)
		functions = append(functions, f)
	}

	return core.NewProgram(functions, registry), nil
}

func libfuncs(decls []LibfuncDecl) []sierra.Libfunc {
	out := make([]sierra.Libfunc, 0, len(decls))
	for _, d := range decls {
		kind := sierra.LibfuncOther
		if d.Kind == "function_call" {
			kind = sierra.LibfuncFunctionCall
		}
		out = append(out, sierra.Libfunc{ID: d.ID, Kind: kind, Callee: d.Callee})
	}
	return out
}

func statement(sd StatementDecl) (sierra.Statement, error) {
	switch sd.Kind {
	case "return":
		return sierra.Ret(sd.Results...), nil
	case "invocation":
		branches := make([]sierra.Branch, 0, len(sd.Branches))
		for _, bd := range sd.Branches {
			target := sierra.Fallthrough
			if bd.Target != nil {
				target = *bd.Target
			}
			branches = append(branches, sierra.Branch{Target: target, Results: bd.Results})
		}
		if len(branches) == 0 {
			branches = []sierra.Branch{{Target: sierra.Fallthrough}}
		}
		return sierra.Statement{Invocation: &sierra.Invocation{
			Libfunc:  sd.Libfunc,
			Args:     sd.Args,
			Branches: branches,
		}}, nil
	default:
		return sierra.Statement{}, fmt.Errorf("unknown statement kind %q", sd.Kind)
	}
}

func params(decls []ParamDecl) []sierra.Param {
	out := make([]sierra.Param, 0, len(decls))
	for _, d := range decls {
		out = append(out, sierra.Param{ID: d.ID, Ty: d.Ty})
	}
	return out
}
