package section

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// ErrEmptyDocID rejects loads without a document identifier.
var ErrEmptyDocID = errors.New("empty document id")

// Navigator is the in-memory registry of parsed document trees, keyed by
// document identifier. All methods are safe for concurrent use; a load
// builds its tree locally and publishes it atomically, so readers never see
// a partially built tree.
type Navigator struct {
	mu    sync.RWMutex
	docs  map[string]*Tree
	order []string
	log   *slog.Logger
}

func NewNavigator(log *slog.Logger) *Navigator {
	if log == nil {
		log = slog.Default()
	}
	return &Navigator{
		docs: make(map[string]*Tree),
		log:  log,
	}
}

// Source is one document's extracted pages, or the per-document error the
// external text-extraction collaborator reported instead.
type Source struct {
	ID    string
	Pages []Page
	Err   error
}

// Load parses pages into a tree and registers it, replacing any previous
// tree for the same identifier. When the primary scan finds no structure the
// fallback detector runs before registration.
func (nv *Navigator) Load(docID string, pages []Page) (*Tree, error) {
	if docID == "" {
		return nil, ErrEmptyDocID
	}

	tree, found := Extract(docID, pages)
	if !found {
		nv.log.Warn("no standard sections found, trying alternate detection", "doc", docID)
		fallbackScan(tree, docID, pages)
	}

	nv.mu.Lock()
	if _, exists := nv.docs[docID]; !exists {
		nv.order = append(nv.order, docID)
	}
	nv.docs[docID] = tree
	nv.mu.Unlock()

	nv.log.Info("loaded document", "doc", docID,
		"sections", len(tree.Node(tree.Root()).Children), "pages", len(pages))
	return tree, nil
}

// LoadMany loads each source in order and returns the number of successes.
// A source whose extraction failed is reported and skipped; it never aborts
// the rest of the batch.
func (nv *Navigator) LoadMany(sources []Source) int {
	loaded := 0
	for _, src := range sources {
		if src.Err != nil {
			nv.log.Error("document skipped, text extraction failed", "doc", src.ID, "error", src.Err)
			continue
		}
		if _, err := nv.Load(src.ID, src.Pages); err != nil {
			nv.log.Error("document skipped", "doc", src.ID, "error", err)
			continue
		}
		loaded++
	}
	return loaded
}

// Documents returns registered identifiers in registration order.
func (nv *Navigator) Documents() []string {
	nv.mu.RLock()
	defer nv.mu.RUnlock()
	out := make([]string, len(nv.order))
	copy(out, nv.order)
	return out
}

// Remove unregisters a document. Returns false if it was not registered.
func (nv *Navigator) Remove(docID string) bool {
	nv.mu.Lock()
	defer nv.mu.Unlock()
	if _, ok := nv.docs[docID]; !ok {
		return false
	}
	delete(nv.docs, docID)
	for i, id := range nv.order {
		if id == docID {
			nv.order = append(nv.order[:i], nv.order[i+1:]...)
			break
		}
	}
	return true
}

// Select returns the tree for a document, or false if it is not registered.
func (nv *Navigator) Select(docID string) (*Tree, bool) {
	nv.mu.RLock()
	defer nv.mu.RUnlock()
	t, ok := nv.docs[docID]
	return t, ok
}

// TopSections returns the root's children for a document. Unknown
// identifiers yield an empty slice.
func (nv *Navigator) TopSections(docID string) []*Node {
	t, ok := nv.Select(docID)
	if !ok {
		return nil
	}
	children := t.Children(t.Root())
	out := make([]*Node, 0, len(children))
	for _, id := range children {
		out = append(out, t.Node(id))
	}
	return out
}

// SelectByPath resolves a sequence of titles from the root to a node. Titles
// match exactly and case-sensitively; a one-element path returns the root.
// The second return is false when the document is unknown or any segment
// fails to match.
func (nv *Navigator) SelectByPath(docID string, path []string) (*Node, bool) {
	t, ok := nv.Select(docID)
	if !ok {
		return nil, false
	}
	id, ok := t.ByPath(path)
	if !ok {
		return nil, false
	}
	return t.Node(id), true
}

// CrossRef pairs an in-text reference with the top-level section it
// resolves to.
type CrossRef struct {
	Ref  string `json:"ref"`
	Doc  string `json:"doc"`
	Node *Node  `json:"section"`
}

// CrossReferences scans content for section citations ("Article 7",
// "المادة ٥") and resolves each against the top-level children of every
// loaded document by title prefix. The first prefix match wins; references
// that resolve nowhere are omitted. Arabic-indic digits normalize before
// comparison so "المادة ٥" matches a title rendered with ASCII digits.
func (nv *Navigator) CrossReferences(content string) []CrossRef {
	matches := markerRef.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	nv.mu.RLock()
	defer nv.mu.RUnlock()

	var refs []CrossRef
	seen := make(map[string]bool)
	for _, m := range matches {
		ref := m[0]
		key := NormalizeDigits(m[1] + " " + m[2])
		if seen[key] {
			continue
		}
		seen[key] = true

		if doc, node := nv.resolveLocked(key); node != nil {
			refs = append(refs, CrossRef{Ref: ref, Doc: doc, Node: node})
		}
	}
	return refs
}

func (nv *Navigator) resolveLocked(prefix string) (string, *Node) {
	for _, docID := range nv.order {
		t := nv.docs[docID]
		for _, id := range t.Children(t.Root()) {
			n := t.Node(id)
			if strings.HasPrefix(NormalizeDigits(n.Title), prefix) {
				return docID, n
			}
		}
	}
	return "", nil
}
