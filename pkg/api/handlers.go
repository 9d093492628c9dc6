package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/listpositions/pkg/itemlist"
	"github.com/ssargent/listpositions/pkg/order"
)

// parseDir maps the optional ?dir= query value to itemlist.Dir, defaulting
// to DirNone for absent positions.
func parseDir(s string) itemlist.Dir {
	switch s {
	case "left":
		return itemlist.DirLeft
	case "right":
		return itemlist.DirRight
	default:
		return itemlist.DirNone
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	nodes := s.ord.Nodes()
	s.mu.RUnlock()

	s.listsMu.Lock()
	listNames := make([]string, 0, len(s.lists))
	for name := range s.lists {
		listNames = append(listNames, name)
	}
	s.listsMu.Unlock()

	sendSuccess(w, map[string]interface{}{
		"replica_id": s.replicaID,
		"bunches":    len(nodes),
		"lists":      listNames,
	})
}

func (s *Server) handleReceiveMetas(w http.ResponseWriter, r *http.Request) {
	var metas receiveMetasRequest
	if err := json.NewDecoder(r.Body).Decode(&metas); err != nil {
		s.metrics.RecordOrderOperation("receive", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.ord.Receive(metas)
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordOrderOperation("receive", false)
		sendErrorForErr(w, err)
		return
	}
	s.persistOrder()
	s.metrics.RecordOrderOperation("receive", true)
	sendSuccess(w, map[string]string{"message": "metas received"})
}

func (s *Server) handleSaveMetas(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	metas := s.ord.Save()
	s.mu.RUnlock()

	s.metrics.RecordOrderOperation("save", true)
	sendSuccess(w, metas)
}

func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req createPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordOrderOperation("create_position", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	s.mu.Lock()
	pos, meta, err := s.ord.CreatePosition(req.Prev, req.Next, req.Count)
	var lex string
	if err == nil {
		lex, err = s.ord.Lex(pos)
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordOrderOperation("create_position", false)
		sendErrorForErr(w, err)
		return
	}
	s.persistOrder()
	s.metrics.RecordOrderOperation("create_position", true)
	sendSuccess(w, createPositionResponse{Position: pos, Lex: lex, Meta: meta})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		s.metrics.RecordOrderOperation("compare", false)
		sendError(w, "a and b query parameters are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posA, err := s.ord.Unlex(a)
	if err != nil {
		s.metrics.RecordOrderOperation("compare", false)
		sendErrorForErr(w, err)
		return
	}
	posB, err := s.ord.Unlex(b)
	if err != nil {
		s.metrics.RecordOrderOperation("compare", false)
		sendErrorForErr(w, err)
		return
	}
	sign, err := s.ord.Compare(posA, posB)
	if err != nil {
		s.metrics.RecordOrderOperation("compare", false)
		sendErrorForErr(w, err)
		return
	}
	s.metrics.RecordOrderOperation("compare", true)
	sendSuccess(w, map[string]int{"sign": sign})
}

func (s *Server) handleLex(w http.ResponseWriter, r *http.Request) {
	bunchID := r.URL.Query().Get("bunch_id")
	innerStr := r.URL.Query().Get("inner_index")
	if bunchID == "" || innerStr == "" {
		s.metrics.RecordOrderOperation("lex", false)
		sendError(w, "bunch_id and inner_index query parameters are required", http.StatusBadRequest)
		return
	}
	inner, err := strconv.ParseUint(innerStr, 10, 32)
	if err != nil {
		s.metrics.RecordOrderOperation("lex", false)
		sendError(w, "inner_index must be an unsigned integer", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	lex, err := s.ord.Lex(order.Position{BunchID: bunchID, InnerIndex: uint32(inner)})
	s.mu.RUnlock()

	if err != nil {
		s.metrics.RecordOrderOperation("lex", false)
		sendErrorForErr(w, err)
		return
	}
	s.metrics.RecordOrderOperation("lex", true)
	sendSuccess(w, map[string]string{"lex": lex})
}

func (s *Server) handleListSet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req listSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordListOperation("set", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	l, err := s.listFor(name)
	if err != nil {
		s.metrics.RecordListOperation("set", false)
		sendErrorForErr(w, err)
		return
	}

	s.mu.Lock()
	err = l.Set(req.Position, req.Value)
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordListOperation("set", false)
		sendErrorForErr(w, err)
		return
	}
	s.persistList(name, l)
	s.metrics.RecordListOperation("set", true)
	sendSuccess(w, map[string]string{"message": "value set"})
}

func (s *Server) handleListDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req listDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordListOperation("delete", false)
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	l, err := s.listFor(name)
	if err != nil {
		s.metrics.RecordListOperation("delete", false)
		sendErrorForErr(w, err)
		return
	}

	s.mu.Lock()
	err = l.Delete(req.Position)
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordListOperation("delete", false)
		sendErrorForErr(w, err)
		return
	}
	s.persistList(name, l)
	s.metrics.RecordListOperation("delete", true)
	sendSuccess(w, map[string]string{"message": "value deleted"})
}

func (s *Server) handleListAt(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	indexStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		s.metrics.RecordListOperation("at", false)
		sendError(w, "index must be an integer", http.StatusBadRequest)
		return
	}

	l, err := s.listFor(name)
	if err != nil {
		s.metrics.RecordListOperation("at", false)
		sendErrorForErr(w, err)
		return
	}

	s.mu.RLock()
	pos, err := l.PositionAt(index)
	var value json.RawMessage
	if err == nil {
		value, _, err = l.Get(pos)
	}
	s.mu.RUnlock()

	if err != nil {
		s.metrics.RecordListOperation("at", false)
		sendErrorForErr(w, err)
		return
	}
	s.metrics.RecordListOperation("at", true)
	sendSuccess(w, listAtResponse{Position: pos, Value: value})
}

func (s *Server) handleListIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	lex := r.URL.Query().Get("position")
	if lex == "" {
		s.metrics.RecordListOperation("index", false)
		sendError(w, "position query parameter is required", http.StatusBadRequest)
		return
	}

	l, err := s.listFor(name)
	if err != nil {
		s.metrics.RecordListOperation("index", false)
		sendErrorForErr(w, err)
		return
	}

	dir := parseDir(r.URL.Query().Get("dir"))

	s.mu.Lock()
	pos, err := s.ord.Unlex(lex)
	var index int
	if err == nil {
		index, err = l.IndexOfPosition(pos, dir)
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordListOperation("index", false)
		sendErrorForErr(w, err)
		return
	}
	s.metrics.RecordListOperation("index", true)
	sendSuccess(w, map[string]int{"index": index})
}
