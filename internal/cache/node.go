// Package cache implements lookup and publish (C3): given a pipeline node's
// declared outputs and a fingerprint, either materialise cached paths or
// atomically publish freshly produced outputs and commit the marker.
package cache

// OutputSpec describes a single declared output of a Node: its type's
// extension, dot-prefixed (e.g. ".jar").
type OutputSpec interface {
	Extension() string
}

// NamedOutput pairs a logical output name with its spec, preserving the
// declaration order of Node.Outputs.
type NamedOutput struct {
	Name string
	Spec OutputSpec
}

// Node is the executor-provided collaborator: a pipeline node with an
// identity and an ordered list of declared outputs.
type Node interface {
	ID() string
	Outputs() []NamedOutput
}

// extensionFor looks up the declared extension for outputName, returning
// ok=false if the node has no such declared output.
func extensionFor(node Node, outputName string) (ext string, ok bool) {
	for _, out := range node.Outputs() {
		if out.Name == outputName {
			return out.Spec.Extension(), true
		}
	}
	return "", false
}
