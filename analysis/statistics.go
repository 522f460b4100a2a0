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
	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/reentrancy"
	"github.com/gmh5225/caracal/analysis/sierra"
	"github.com/gmh5225/caracal/internal/graphutil"
)

// Result aggregates whole-program counts for the stats command.
type Result struct {
	NumberOfFunctions         uint
	NumberOfExternalFunctions uint
	NumberOfBlocks            uint
	NumberOfEdges             uint
	NumberOfStatements        uint
	LoopingFunctions          uint
	ReentrantFunctions        uint
}

// Statistics walks an analyzed program and counts functions, blocks, edges
// and flagged properties. Run must have completed first.
func Statistics(prog *core.Program) Result {
	var result Result
	for _, f := range prog.Functions() {
		result.NumberOfFunctions++
		if f.Role() == sierra.RoleExternal {
			result.NumberOfExternalFunctions++
		}
		result.NumberOfStatements += uint(len(f.Statements()))

		cfg := f.CFG()
		if cfg == nil {
			continue
		}
		for _, b := range cfg.Blocks() {
			result.NumberOfBlocks++
			result.NumberOfEdges += uint(len(b.Successors()))
		}
		if graphutil.HasLoop(cfg) {
			result.LoopingFunctions++
		}
		if reentrancy.Reentrant(f.Analyses().Reentrancy) {
			result.ReentrantFunctions++
		}
	}
	return result
}
