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

package analysis

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/gmh5225/caracal/analysis/config"
	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/loader"
	"github.com/gmh5225/caracal/analysis/reentrancy"
)

func analyzedTokenProgram(t *testing.T) *core.Program {
	t.Helper()
	prog, err := loader.Load(filepath.Join("loader", "testdata", "token.json"))
	if err != nil {
		t.Fatalf("loading artifact: %v", err)
	}
	logger := config.NewLogGroup(config.NewDefault())
	logger.SetAllOutput(io.Discard)
	Run(prog, config.NewDefault(), logger)
	return prog
}

func TestRunFlagsReentrantTransfer(t *testing.T) {
	prog := analyzedTokenProgram(t)
	transfer, ok := prog.FunctionByName("token::transfer")
	if !ok {
		t.Fatal("token::transfer missing from program")
	}
	states := transfer.Analyses().Reentrancy
	if len(states) == 0 {
		t.Fatal("no reentrancy result for the external function")
	}
	if !reentrancy.Reentrant(states) {
		t.Errorf("token::transfer writes storage after an external call and should be flagged, got %v", states)
	}
	view, ok := prog.FunctionByName("token::get_balance")
	if !ok {
		t.Fatal("token::get_balance missing from program")
	}
	if len(view.Analyses().Reentrancy) != 0 {
		t.Errorf("view functions should not run the reentrancy analysis")
	}
}

func TestRunClassifiesCalls(t *testing.T) {
	prog := analyzedTokenProgram(t)
	transfer, _ := prog.FunctionByName("token::transfer")
	if n := len(transfer.StorageReads()); n != 1 {
		t.Errorf("expected 1 storage read in token::transfer, got %d", n)
	}
	if n := len(transfer.StorageWrites()); n != 1 {
		t.Errorf("expected 1 storage write in token::transfer, got %d", n)
	}
	if n := len(transfer.ExternalCalls()); n != 1 {
		t.Errorf("expected 1 external call in token::transfer, got %d", n)
	}
	internal, _ := prog.FunctionByName("token::internal_transfer")
	if n := len(internal.StorageWrites()); n != 1 {
		t.Errorf("expected 1 storage write in token::internal_transfer, got %d", n)
	}
}

func TestStatisticsCounts(t *testing.T) {
	prog := analyzedTokenProgram(t)
	result := Statistics(prog)
	if result.NumberOfFunctions != 8 {
		t.Errorf("expected 8 functions, got %d", result.NumberOfFunctions)
	}
	if result.NumberOfExternalFunctions != 1 {
		t.Errorf("expected 1 external function, got %d", result.NumberOfExternalFunctions)
	}
	if result.NumberOfStatements != 19 {
		t.Errorf("expected 19 statements, got %d", result.NumberOfStatements)
	}
	if result.ReentrantFunctions != 1 {
		t.Errorf("expected 1 reentrant function, got %d", result.ReentrantFunctions)
	}
	if result.LoopingFunctions != 0 {
		t.Errorf("expected no looping functions, got %d", result.LoopingFunctions)
	}
	// Straight-line functions: every block but each function's last has one
	// successor, so edges = blocks - functions.
	if result.NumberOfEdges != result.NumberOfBlocks-result.NumberOfFunctions {
		t.Errorf("expected %d edges for straight-line control flow, got %d",
			result.NumberOfBlocks-result.NumberOfFunctions, result.NumberOfEdges)
	}
}
