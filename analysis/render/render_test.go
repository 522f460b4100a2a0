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

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/sierra"
)

var testRegistry = sierra.NewRegistry([]sierra.Libfunc{
	{ID: "felt252_is_zero"},
	{ID: "store_temp"},
})

func conditional() *core.Function {
	f := core.NewFunction(sierra.FuncDecl{ID: "token::transfer"}, []sierra.Statement{
		sierra.InvokeTo("felt252_is_zero", []int{2, sierra.Fallthrough}, "v0"),
		sierra.Ret("v1"),
		sierra.Ret("v2"),
	})
	f.SetRole(sierra.RoleExternal)
	f.Analyze([]*core.Function{f}, testRegistry)
	return f
}

func TestDotConditional(t *testing.T) {
	out, err := Dot(conditional())
	if err != nil {
		t.Fatalf("rendering CFG: %v", err)
	}
	s := string(out)
	for _, want := range []string{"bb0", "bb1", "bb2", "bb0 -> bb1", "bb0 -> bb2", "shape"} {
		if !strings.Contains(s, want) {
			t.Errorf("dot output missing %q:\n%s", want, s)
		}
	}
}

func TestDotSelfLoop(t *testing.T) {
	f := core.NewFunction(sierra.FuncDecl{ID: "token::spin"}, []sierra.Statement{
		sierra.Invoke("store_temp", "v0"),
		sierra.InvokeTo("felt252_is_zero", []int{0, sierra.Fallthrough}, "v1"),
		sierra.Ret("v2"),
	})
	f.SetRole(sierra.RolePrivate)
	f.Analyze([]*core.Function{f}, testRegistry)
	out, err := Dot(f)
	if err != nil {
		t.Fatalf("rendering CFG: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "bb0 -> bb0") {
		t.Errorf("dot output missing the self loop:\n%s", s)
	}
	if !strings.HasSuffix(strings.TrimSpace(s), "}") {
		t.Errorf("dot output is not closed:\n%s", s)
	}
}

func TestDotWithoutCFG(t *testing.T) {
	f := core.NewFunction(sierra.FuncDecl{ID: "token::transfer"}, nil)
	if _, err := Dot(f); err == nil {
		t.Error("expected an error for a function without a CFG")
	}
}

func TestWriteDot(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDot(conditional(), dir)
	if err != nil {
		t.Fatalf("writing CFG: %v", err)
	}
	if filepath.Base(path) != "token_transfer.dot" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(b), "bb0") {
		t.Errorf("written file does not contain the CFG")
	}
}
