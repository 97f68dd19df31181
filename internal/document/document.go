package document

import "sort"

// RootID is the designated entry node of every serialized document.
const RootID = "ROOT"

// NodeType carries the component binding of a node. The indirection matches
// the persisted editor format, where the type is an object rather than a
// bare string.
type NodeType struct {
	ResolvedName string `json:"resolvedName,omitempty"`
}

// Node is a single block in the serialized tree. Nodes reference children by
// id (Nodes, ordered) and secondary slots by name (LinkedNodes), so a
// document is an arena rather than a nested structure.
type Node struct {
	Type        NodeType          `json:"type,omitempty"`
	DisplayName string            `json:"displayName,omitempty"`
	Props       map[string]any    `json:"props,omitempty"`
	Nodes       []string          `json:"nodes,omitempty"`
	LinkedNodes map[string]string `json:"linkedNodes,omitempty"`
}

// Document maps node id to node. The shape is a stable interchange format;
// it is persisted verbatim in draft content, published content, and version
// snapshots.
type Document map[string]*Node

// Empty returns a minimal valid document containing only a root canvas.
func Empty() Document {
	return Document{
		RootID: {
			Type:  NodeType{ResolvedName: "PageCanvas"},
			Props: map[string]any{},
		},
	}
}

// Root returns the root node, or nil when the document has none.
func (d Document) Root() *Node {
	if d == nil {
		return nil
	}
	return d[RootID]
}

// LinkedNodeIDs returns the node's linked-slot targets ordered by slot name.
// Iteration over the underlying map is randomized, so callers that render
// linked nodes need this to stay deterministic.
func (n *Node) LinkedNodeIDs() []string {
	if n == nil || len(n.LinkedNodes) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.LinkedNodes))
	for name := range n.LinkedNodes {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, n.LinkedNodes[name])
	}
	return ids
}

// Clone returns a deep copy of the document. Mutating the copy never
// affects the original, which matters for snapshot immutability.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for id, node := range d {
		out[id] = node.clone()
	}
	return out
}

func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	copied := &Node{
		Type:        n.Type,
		DisplayName: n.DisplayName,
	}
	if n.Props != nil {
		copied.Props = cloneValue(n.Props).(map[string]any)
	}
	if n.Nodes != nil {
		copied.Nodes = append([]string(nil), n.Nodes...)
	}
	if n.LinkedNodes != nil {
		copied.LinkedNodes = make(map[string]string, len(n.LinkedNodes))
		for k, v := range n.LinkedNodes {
			copied.LinkedNodes[k] = v
		}
	}
	return copied
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = cloneValue(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return value
	}
}
