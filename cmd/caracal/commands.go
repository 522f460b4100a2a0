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

package main

import (
	"fmt"

	"github.com/gmh5225/caracal/analysis"
	"github.com/gmh5225/caracal/analysis/config"
	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/detectors"
	"github.com/gmh5225/caracal/analysis/loader"
	"github.com/gmh5225/caracal/analysis/render"
	"github.com/gmh5225/caracal/internal/formatutil"
	"github.com/spf13/cobra"
)

func buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "caracal",
		Short:         "Static analyzer for compiled smart-contract programs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newDetectCmd())
	root.AddCommand(newDetectorsCmd())
	root.AddCommand(newPrintCfgCmd())
	root.AddCommand(newStatsCmd())
	return root
}

// impactColor maps a finding's impact grade to the color it is printed in.
func impactColor(i detectors.Impact) func(...interface{}) string {
	switch i {
	case detectors.ImpactHigh:
		return formatutil.Red
	case detectors.ImpactMedium:
		return formatutil.Yellow
	default:
		return formatutil.Faint
	}
}

// loadAndAnalyze loads the config and the compiled artifact and runs the
// analysis phases over every function.
func loadAndAnalyze(artifact string, configPath string) (*core.Program, *config.Config, *config.LogGroup, error) {
	cfg := config.NewDefault()
	if configPath != "" {
		config.SetGlobalConfig(configPath)
		loaded, err := config.LoadGlobal()
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	}
	logger := config.NewLogGroup(cfg)

	prog, err := loader.Load(artifact)
	if err != nil {
		return nil, nil, nil, err
	}
	analysis.Run(prog, cfg, logger)
	return prog, cfg, logger, nil
}

func newDetectCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "detect <artifact>",
		Short: "Run all enabled detectors over a compiled program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, cfg, logger, err := loadAndAnalyze(args[0], configPath)
			if err != nil {
				return err
			}
			total := 0
			for _, d := range detectors.Registered() {
				if !cfg.RunsDetector(d.Name()) {
					logger.Debugf("detector %s disabled by config", d.Name())
					continue
				}
				for _, finding := range d.Run(prog, logger) {
					total++
					fmt.Printf("%s %s %s: %s\n",
						impactColor(d.Impact())(fmt.Sprintf("[%s]", d.Impact())),
						formatutil.Bold(finding.Detector),
						formatutil.Cyan(finding.Function),
						finding.Message)
				}
			}
			if total == 0 {
				fmt.Println(formatutil.Green("No findings."))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	return cmd
}

func newDetectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detectors",
		Short: "List the registered detectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range detectors.Registered() {
				fmt.Printf("%s %s\n\t%s\n",
					formatutil.Bold(d.Name()),
					impactColor(d.Impact())(fmt.Sprintf("[%s]", d.Impact())),
					formatutil.Faint(d.Description()))
			}
			return nil
		},
	}
}

func newPrintCfgCmd() *cobra.Command {
	var (
		configPath string
		function   string
		outDir     string
	)
	cmd := &cobra.Command{
		Use:   "print-cfg <artifact>",
		Short: "Export the CFG of program functions as Graphviz dot files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, cfg, logger, err := loadAndAnalyze(args[0], configPath)
			if err != nil {
				return err
			}
			dir := outDir
			if dir == "" {
				dir = cfg.ReportsDir
			}
			if dir == "" {
				dir = "."
			}
			for _, f := range prog.Functions() {
				if function != "" && f.Name() != function {
					continue
				}
				path, err := render.WriteDot(f, dir)
				if err != nil {
					return err
				}
				logger.Infof("wrote %s", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	cmd.Flags().StringVar(&function, "function", "", "only export the named function")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to reports-dir)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "stats <artifact>",
		Short: "Print whole-program statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, _, _, err := loadAndAnalyze(args[0], configPath)
			if err != nil {
				return err
			}
			result := analysis.Statistics(prog)
			fmt.Printf("functions:          %d\n", result.NumberOfFunctions)
			fmt.Printf("external functions: %d\n", result.NumberOfExternalFunctions)
			fmt.Printf("statements:         %d\n", result.NumberOfStatements)
			fmt.Printf("basic blocks:       %d\n", result.NumberOfBlocks)
			fmt.Printf("edges:              %d\n", result.NumberOfEdges)
			fmt.Printf("looping functions:  %d\n", result.LoopingFunctions)
			fmt.Printf("reentrant:          %d\n", result.ReentrantFunctions)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	return cmd
}
