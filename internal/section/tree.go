// Package section parses unstructured, bilingual (Arabic/English) legal
// document text into navigable trees of articles, sections and subsections.
package section

import "strings"

// Nesting levels. The scanner does not nest deeper than subsections.
const (
	LevelRoot       = 0
	LevelSection    = 1
	LevelSubsection = 2
)

// NodeID is a handle into a Tree's node arena.
type NodeID int

// NoNode is the null handle.
const NoNode NodeID = -1

// Node is one structural unit of a legal document.
type Node struct {
	Title     string   // Display label, e.g. "Article 5: Scope" or "المادة 5: نطاق التطبيق"
	Content   string   // Accumulated text body
	Level     int      // 0 = document root, 1 = section, 2 = subsection
	Parent    NodeID   // NoNode for the root
	Children  []NodeID // Insertion order = order of encounter in the document
	SourceDoc string   // Originating document identifier
	PageNum   int      // Zero-based page where the marker was first found
}

// Page is one page of extracted document text, supplied by a format parser.
type Page struct {
	Index int
	Text  string
}

// Tree holds the node arena for one parsed document. Nodes are addressed by
// handle; parent back-references never form ownership cycles.
type Tree struct {
	nodes []*Node
	root  NodeID
}

// NewTree creates a tree with a root node titled after the document.
func NewTree(docID string) *Tree {
	t := &Tree{}
	t.root = t.add(&Node{
		Title:     docID,
		Level:     LevelRoot,
		Parent:    NoNode,
		SourceDoc: docID,
	})
	return t
}

func (t *Tree) add(n *Node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

// Root returns the root handle.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node resolves a handle. Returns nil for NoNode or out-of-range handles.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// AddChild attaches n under parent and returns its handle.
func (t *Tree) AddChild(parent NodeID, n *Node) NodeID {
	n.Parent = parent
	id := t.add(n)
	p := t.Node(parent)
	p.Children = append(p.Children, id)
	return id
}

// AppendContent adds a text segment to a node's accumulated content,
// separated by a newline.
func (t *Tree) AppendContent(id NodeID, text string) {
	n := t.Node(id)
	n.Content += "\n" + text
}

// Children returns the ordered child handles of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	return n.Children
}

// Path returns the display path from the root to id, e.g.
// "law.pdf > Chapter 1 > Article 3".
func (t *Tree) Path(id NodeID) string {
	var titles []string
	for cur := id; cur != NoNode; cur = t.Node(cur).Parent {
		titles = append(titles, t.Node(cur).Title)
	}
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return strings.Join(titles, " > ")
}

// ByPath walks title segments from the root. The first segment is the root
// itself; a one-element path selects the root. Matching is exact and
// case-sensitive. Returns NoNode and false when any segment fails to match.
func (t *Tree) ByPath(titles []string) (NodeID, bool) {
	if len(titles) == 0 {
		return NoNode, false
	}
	cur := t.root
	for _, want := range titles[1:] {
		next := NoNode
		for _, child := range t.Node(cur).Children {
			if t.Node(child).Title == want {
				next = child
				break
			}
		}
		if next == NoNode {
			return NoNode, false
		}
		cur = next
	}
	return cur, true
}
