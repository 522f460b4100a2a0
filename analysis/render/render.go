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

// Package render exports a function's CFG as a Graphviz dot file. It is a
// presentation layer over the CFG's public block and edge accessors and has
// no part in the analysis contract.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmh5225/caracal/analysis/core"
	"github.com/gmh5225/caracal/analysis/sierra"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// blockNode adapts a basic block to gonum's dot encoding: the node id is the
// block id and the label lists the block's statements.
type blockNode struct {
	block *sierra.BasicBlock
}

func (n blockNode) ID() int64 { return int64(n.block.ID()) }

func (n blockNode) DOTID() string { return fmt.Sprintf("bb%d", n.block.ID()) }

func (n blockNode) Attributes() []encoding.Attribute {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BB %d\n", n.block.ID())
	for _, s := range n.block.Statements() {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return []encoding.Attribute{
		{Key: "label", Value: sb.String()},
		{Key: "shape", Value: "box"},
	}
}

// Dot returns the dot rendering of the function's CFG. The CFG must have
// been built by Analyze.
func Dot(f *core.Function) ([]byte, error) {
	cfg := f.CFG()
	if cfg == nil {
		return nil, fmt.Errorf("function %s has no CFG: call Analyze first", f.Name())
	}
	g := simple.NewDirectedGraph()
	for _, b := range cfg.Blocks() {
		g.AddNode(blockNode{block: b})
	}
	// simple graphs reject self-edges, so single-block loops are added to
	// the dot output after marshaling.
	var selfLoops []int
	for _, b := range cfg.Blocks() {
		for _, succ := range b.Successors() {
			if succ == b.ID() {
				selfLoops = append(selfLoops, b.ID())
				continue
			}
			g.SetEdge(simple.Edge{
				F: simple.Node(int64(b.ID())),
				T: simple.Node(int64(succ)),
			})
		}
	}
	out, err := dot.Marshal(g, dotName(f.Name()), "", "  ")
	if err != nil {
		return nil, err
	}
	if len(selfLoops) > 0 {
		var sb strings.Builder
		sb.Write(bytes.TrimSuffix(bytes.TrimRight(out, "\n"), []byte("}")))
		for _, id := range selfLoops {
			fmt.Fprintf(&sb, "  bb%d -> bb%d;\n", id, id)
		}
		sb.WriteString("}")
		out = []byte(sb.String())
	}
	return out, nil
}

// WriteDot writes the function's CFG to <dir>/<name>.dot and returns the
// path.
func WriteDot(f *core.Function, dir string) (string, error) {
	out, err := Dot(f)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, dotName(f.Name())+".dot")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("could not write CFG for %s: %w", f.Name(), err)
	}
	return path, nil
}

// dotName derives a file-system friendly graph name from a function name:
// the generic part is dropped and path separators are flattened.
func dotName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, "::", "_")
}
