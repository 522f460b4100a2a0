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

// Package detectors turns analysis results into user-facing findings. Each
// detector inspects an analyzed program and reports the functions exhibiting
// its property.
package detectors

import (
	"github.com/gmh5225/caracal/analysis/config"
	"github.com/gmh5225/caracal/analysis/core"
)

// Impact grades how severe a confirmed finding is.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Finding is one reported occurrence of a detector's property.
type Finding struct {
	Detector string
	Function string
	Message  string
}

// Detector inspects an analyzed program. Run is called after Analyze and
// RunAnalyses have completed for every function.
type Detector interface {
	Name() string
	Description() string
	Impact() Impact
	Run(prog *core.Program, logger *config.LogGroup) []Finding
}

// Registered returns the built-in detectors in a stable order.
func Registered() []Detector {
	return []Detector{
		&ReentrancyDetector{},
	}
}
