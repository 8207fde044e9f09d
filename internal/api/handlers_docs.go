package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muscatlabs/qanun/internal/section"
)

// sectionView is the JSON shape for one node of a section tree.
type sectionView struct {
	Title    string        `json:"title"`
	Level    int           `json:"level"`
	Page     int           `json:"page"`
	Content  string        `json:"content,omitempty"`
	Children []sectionView `json:"children,omitempty"`
}

func viewOf(t *section.Tree, id section.NodeID, withContent bool) sectionView {
	n := t.Node(id)
	v := sectionView{
		Title: n.Title,
		Level: n.Level,
		Page:  n.PageNum,
	}
	if withContent {
		v.Content = n.Content
	}
	for _, child := range t.Children(id) {
		v.Children = append(v.Children, viewOf(t, child, withContent))
	}
	return v
}

// handleListDocuments lists loaded documents with their section counts.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []map[string]any
	for _, docID := range s.nav.Documents() {
		entry := map[string]any{"doc_id": docID}
		if tree, ok := s.nav.Select(docID); ok {
			entry["sections"] = tree.Len() - 1
			entry["top_sections"] = len(tree.Children(tree.Root()))
		}
		docs = append(docs, entry)
	}
	if docs == nil {
		docs = []map[string]any{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument drops a document from the navigator and the index.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.nav.Remove(docID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err := s.store.Remove(r.Context(), docID); err != nil {
		s.log.Error("index removal failed", "doc", docID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

// handleSections returns the section outline of one document. Pass
// ?content=true to include section bodies.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	tree, ok := s.nav.Select(docID)
	if !ok {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	withContent := r.URL.Query().Get("content") == "true"
	var outline []sectionView
	for _, child := range tree.Children(tree.Root()) {
		outline = append(outline, viewOf(tree, child, withContent))
	}
	if outline == nil {
		outline = []sectionView{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":   docID,
		"sections": outline,
	})
}

// handleSectionByPath resolves one section by its title path from the root.
func (s *Server) handleSectionByPath(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	var req struct {
		Path []string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Path) == 0 {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}

	node, ok := s.nav.SelectByPath(docID, req.Path)
	if !ok {
		jsonError(w, "section not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":  docID,
		"title":   node.Title,
		"level":   node.Level,
		"page":    node.PageNum,
		"content": node.Content,
	})
}

// handleCrossReferences scans free text for provision citations and resolves
// them against loaded documents.
func (s *Server) handleCrossReferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	refs := s.nav.CrossReferences(req.Text)
	out := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		out = append(out, map[string]any{
			"ref":     ref.Ref,
			"doc_id":  ref.Doc,
			"section": ref.Node.Title,
			"page":    ref.Node.PageNum,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"references": out})
}
