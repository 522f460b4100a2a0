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

package detectors

import (
	"fmt"

	"github.com/gmh5225/caracal/analysis/config"
	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/reentrancy"
	"github.com/gmh5225/caracal/internal/funcutil"
	"github.com/gmh5225/caracal/internal/graphutil"
)

// ReentrancyDetector reports external functions where a storage write is
// reachable after a contract or library call without an intervening guard.
type ReentrancyDetector struct{}

// Name returns the detector identifier used in config and reports.
func (d *ReentrancyDetector) Name() string { return "reentrancy" }

// Description returns the one-line description shown by the detectors
// command.
func (d *ReentrancyDetector) Description() string {
	return "storage write reachable after an external call in an external function"
}

// Impact returns the severity of a confirmed finding.
func (d *ReentrancyDetector) Impact() Impact { return ImpactHigh }

// Run reports every external function with a reachable block whose fixpoint
// state is write-after-call.
func (d *ReentrancyDetector) Run(prog *core.Program, logger *config.LogGroup) []Finding {
	var findings []Finding
	for _, f := range prog.Functions() {
		states := f.Analyses().Reentrancy
		if len(states) == 0 {
			continue
		}
		reachable := graphutil.ReachableBlocks(f.CFG())
		// Iterate block ids in offset order so the block named in the
		// debug log is stable across runs.
		for _, id := range funcutil.SortedKeys(states) {
			if states[id] != reentrancy.WriteAfterCall || !reachable[id] {
				continue
			}
			logger.Debugf("reentrancy: function %s block %d is write-after-call", f.Name(), id)
			findings = append(findings, Finding{
				Detector: d.Name(),
				Function: f.Name(),
				Message:  fmt.Sprintf("storage write after an external call in %s", f.Name()),
			})
			break
		}
	}
	return findings
}
