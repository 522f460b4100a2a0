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

// Package analysis orchestrates the per-function passes over a loaded
// program: CFG construction and call classification first, then the dataflow
// analyses, each phase finishing before the next starts.
package analysis

import (
	"time"

	"github.com/gmh5225/caracal/analysis/config"
	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/internal/funcutil"
)

// Run analyzes every function of the program. Functions are independent
// within a phase, so each phase may run in parallel over cfg.NumRoutines
// goroutines; the phase barrier preserves the required ordering (roles are
// assigned by the loader before Run, every CFG is built before any dataflow
// analysis reads one).
func Run(prog *core.Program, cfg *config.Config, logger *config.LogGroup) {
	funcs := prog.Functions()
	reg := prog.Registry()

	logger.Infof("Starting per-function analysis (%d functions)...", len(funcs))
	start := time.Now()
	funcutil.MapParallel(funcs, func(f *core.Function) struct{} {
		logger.Tracef("analyzing %s", f.Name())
		f.Analyze(funcs, reg)
		return struct{}{}
	}, cfg.NumRoutines)
	logger.Infof("CFG and call classification done (%.2f s).", time.Since(start).Seconds())

	start = time.Now()
	funcutil.MapParallel(funcs, func(f *core.Function) struct{} {
		f.RunAnalyses(funcs, reg)
		return struct{}{}
	}, cfg.NumRoutines)
	logger.Infof("Dataflow analyses done (%.2f s).", time.Since(start).Seconds())
}
