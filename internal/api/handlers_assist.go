package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/muscatlabs/qanun/internal/compare"
	"github.com/muscatlabs/qanun/internal/llm"
)

const defaultSearchK = 5

// handleAsk answers a question over the indexed corpus with citations.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		DocID    string `json:"doc_id"`
		K        int    `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}
	if req.K <= 0 {
		req.K = defaultSearchK
	}

	hits, err := s.store.Search(r.Context(), req.Question, req.K, req.DocID)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	answer, err := s.llm.Answer(r.Context(), req.Question, hits)
	if err != nil {
		jsonError(w, "answer generation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	// Resolve both bracketed citations and bare provision mentions.
	citations := llm.Citations(answer)
	if citations == nil {
		citations = []llm.Citation{}
	}
	refs := s.nav.CrossReferences(answer)
	resolved := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		resolved = append(resolved, map[string]any{
			"ref":     ref.Ref,
			"doc_id":  ref.Doc,
			"section": ref.Node.Title,
			"page":    ref.Node.PageNum,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"answer":     answer,
		"citations":  citations,
		"references": resolved,
		"sources":    hits,
	})
}

// handleCompare finds two provisions and diffs them, optionally with an HTML
// report and LLM commentary.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query      string `json:"query"`
		Doc1       string `json:"doc1"`
		Doc2       string `json:"doc2"`
		HTML       bool   `json:"html"`
		Commentary bool   `json:"commentary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	provisions := compare.FindProvisions(s.nav, req.Query)
	p1, p2, ok := pickPair(provisions, req.Doc1, req.Doc2)
	if !ok {
		jsonError(w, "need matching provisions in two documents", http.StatusNotFound)
		return
	}

	resp := map[string]any{
		"first":  p1,
		"second": p2,
		"diff":   compare.Diff(p1, p2),
	}

	if req.HTML {
		html, err := compare.HTMLReport(p1, p2)
		if err != nil {
			jsonError(w, "report generation failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp["html"] = html
	}

	if req.Commentary {
		commentary, err := s.llm.CompareCommentary(r.Context(), p1.Text, p2.Text)
		if err != nil {
			jsonError(w, "commentary generation failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		resp["commentary"] = commentary
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// pickPair selects one provision per requested document, or the first two
// from different documents when no documents are named.
func pickPair(provisions []compare.Provision, doc1, doc2 string) (compare.Provision, compare.Provision, bool) {
	var p1, p2 *compare.Provision
	for i := range provisions {
		p := &provisions[i]
		switch {
		case doc1 != "" && p.Doc == doc1 && p1 == nil:
			p1 = p
		case doc2 != "" && p.Doc == doc2 && p2 == nil:
			p2 = p
		case doc1 == "" && p1 == nil:
			p1 = p
		case doc2 == "" && p2 == nil && p1 != nil && p.Doc != p1.Doc:
			p2 = p
		}
	}
	if p1 == nil || p2 == nil {
		return compare.Provision{}, compare.Provision{}, false
	}
	return *p1, *p2, true
}

// handleAnalyze runs a structured case analysis over a fact pattern.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Facts     string   `json:"facts"`
		Questions []string `json:"questions"`
		K         int      `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Facts) == "" {
		jsonError(w, "facts is required", http.StatusBadRequest)
		return
	}
	if req.K <= 0 {
		req.K = defaultSearchK
	}

	// Pull related provisions when anything is indexed; analysis still works
	// without them.
	hits, err := s.store.Search(r.Context(), req.Facts, req.K, "")
	if err != nil {
		s.log.Warn("analysis retrieval failed", "error", err)
	}

	analysis, err := s.llm.AnalyzeCase(r.Context(), req.Facts, req.Questions, hits)
	if err != nil {
		jsonError(w, "analysis failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"analysis": analysis,
		"sources":  hits,
	})
}

// handleDraft generates a formal legal document.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string            `json:"type"`
		Params map[string]string `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	document, err := s.llm.Draft(r.Context(), req.Type, req.Params)
	if err != nil {
		if strings.Contains(err.Error(), "unknown document type") {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "drafting failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"type":     req.Type,
		"document": document,
	})
}

// handleTranslate translates legal text between Arabic and English.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   string `json:"text"`
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	translated, err := s.llm.Translate(r.Context(), req.Text, req.Source, req.Target)
	if err != nil {
		jsonError(w, "translation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"translated": translated,
	})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.llm.Model(),
		"stats": s.llm.Stats().Snapshot(),
	})
}
