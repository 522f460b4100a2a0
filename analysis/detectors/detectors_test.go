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
	"io"
	"path/filepath"
	"testing"

	"github.com/gmh5225/caracal/analysis"
	"github.com/gmh5225/caracal/analysis/config"
	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/loader"
)

func analyzedTokenProgram(t *testing.T) (*core.Program, *config.LogGroup) {
	t.Helper()
	prog, err := loader.Load(filepath.Join("..", "loader", "testdata", "token.json"))
	if err != nil {
		t.Fatalf("loading artifact: %v", err)
	}
	logger := config.NewLogGroup(config.NewDefault())
	logger.SetAllOutput(io.Discard)
	analysis.Run(prog, config.NewDefault(), logger)
	return prog, logger
}

func TestRegistered(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Registered() {
		if d.Name() == "" || d.Description() == "" {
			t.Errorf("detector %T must have a name and a description", d)
		}
		if seen[d.Name()] {
			t.Errorf("duplicate detector name %s", d.Name())
		}
		seen[d.Name()] = true
	}
	if !seen["reentrancy"] {
		t.Error("reentrancy detector is not registered")
	}
}

func TestReentrancyDetector(t *testing.T) {
	prog, logger := analyzedTokenProgram(t)
	d := &ReentrancyDetector{}
	findings := d.Run(prog, logger)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Detector != "reentrancy" {
		t.Errorf("unexpected detector name %s", f.Detector)
	}
	if f.Function != "token::transfer" {
		t.Errorf("expected a finding on token::transfer, got %s", f.Function)
	}
	if d.Impact() != ImpactHigh {
		t.Errorf("reentrancy findings are high impact, got %s", d.Impact())
	}
}
