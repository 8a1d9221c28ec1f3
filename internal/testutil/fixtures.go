package testutil

import (
	"github.com/allaspectsdev/nfrt-cache/internal/cache"
)

// OutputSpec is a minimal cache.OutputSpec implementation for tests.
type OutputSpec struct {
	Ext string
}

func (s OutputSpec) Extension() string { return s.Ext }

// Node is a minimal cache.Node implementation for tests, giving each
// fixture node a fixed ID and a declared set of named outputs.
type Node struct {
	NodeID      string
	NodeOutputs []cache.NamedOutput
}

func (n Node) ID() string { return n.NodeID }

func (n Node) Outputs() []cache.NamedOutput { return n.NodeOutputs }

// SampleCompileNode is a representative single-output node, patterned on a
// compiler task that produces one jar.
func SampleCompileNode() Node {
	return Node{
		NodeID: "compile",
		NodeOutputs: []cache.NamedOutput{
			{Name: "output", Spec: OutputSpec{Ext: ".jar"}},
		},
	}
}

// SampleMultiOutputNode is a representative node with several declared
// outputs, patterned on a decompiler task that emits sources plus a log.
func SampleMultiOutputNode() Node {
	return Node{
		NodeID: "decompile",
		NodeOutputs: []cache.NamedOutput{
			{Name: "sources", Spec: OutputSpec{Ext: ".jar"}},
			{Name: "log", Spec: OutputSpec{Ext: ".log"}},
		},
	}
}
