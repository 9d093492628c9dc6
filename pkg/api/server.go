// Package api exposes an Order and its named Lists over a chi-routed REST
// API, so independent replica processes can exchange BunchMeta and
// presence state without sharing a process.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/listpositions/pkg/itemlist"
	"github.com/ssargent/listpositions/pkg/order"
	"github.com/ssargent/listpositions/pkg/persist"
)

// Server holds the state one HTTP server instance wraps: a single Order
// shared by every named List, protected by one coarse RWMutex per the
// single-threaded-cooperative-core annotation (writers take the lock for
// receive/create_position/list mutation and for the compare and index
// handlers, whose Unlex may Receive bunches named in a lex string; readers
// for get_node/save/list lookups).
type Server struct {
	mu        sync.RWMutex // guards ord and every List's content
	ord       *order.Order
	replicaID string
	listsMu   sync.Mutex // guards the lists map itself (creation only)
	lists     map[string]*itemlist.List[json.RawMessage]
	persist   *persist.Manager // nil disables durability
	config    ServerConfig
	metrics   *Metrics
}

// NewServer creates a Server around an already-constructed Order. mgr may
// be nil, in which case mutations are not persisted.
func NewServer(replicaID string, ord *order.Order, mgr *persist.Manager, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		ord:       ord,
		replicaID: replicaID,
		lists:     make(map[string]*itemlist.List[json.RawMessage]),
		persist:   mgr,
		config:    config,
		metrics:   metrics,
	}
}

// listFor returns the named list, creating and (if persisted) loading it
// from its last snapshot on first access.
func (s *Server) listFor(name string) (*itemlist.List[json.RawMessage], error) {
	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	if l, ok := s.lists[name]; ok {
		return l, nil
	}

	l := itemlist.New[json.RawMessage](s.ord)
	if s.persist != nil {
		data, err := s.persist.LoadListSnapshot(name)
		if err != nil {
			return nil, err
		}
		if data != nil {
			var snap itemlist.Snapshot[json.RawMessage]
			if err := json.Unmarshal(data, &snap); err != nil {
				return nil, fmt.Errorf("api: decoding snapshot for list %q: %w", name, err)
			}
			if err := l.Load(snap); err != nil {
				return nil, err
			}
		}
	}
	s.lists[name] = l
	return l, nil
}

func (s *Server) persistOrder() {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveOrderMeta(s.replicaID, s.ord.Save()); err != nil {
		log.Printf("api: failed to persist order metadata: %v", err)
	}
}

func (s *Server) persistList(name string, l *itemlist.List[json.RawMessage]) {
	if s.persist == nil {
		return
	}
	data, err := json.Marshal(l.Save())
	if err != nil {
		log.Printf("api: failed to marshal list %q snapshot: %v", name, err)
		return
	}
	if err := s.persist.SaveListSnapshot(name, data); err != nil {
		log.Printf("api: failed to persist list %q snapshot: %v", name, err)
	}
}

// NewRouter builds the full chi router: public /health and /metrics, and
// an API-key-protected /api/v1 tree for everything else.
func NewRouter(s *Server) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Post("/order/metas", s.metrics.InstrumentHandler("POST", "/api/v1/order/metas", s.handleReceiveMetas))
		r.Get("/order/metas", s.metrics.InstrumentHandler("GET", "/api/v1/order/metas", s.handleSaveMetas))
		r.Post("/order/position", s.metrics.InstrumentHandler("POST", "/api/v1/order/position", s.handleCreatePosition))
		r.Get("/order/compare", s.metrics.InstrumentHandler("GET", "/api/v1/order/compare", s.handleCompare))
		r.Get("/order/lex", s.metrics.InstrumentHandler("GET", "/api/v1/order/lex", s.handleLex))

		r.Post("/list/{name}/set", s.metrics.InstrumentHandler("POST", "/api/v1/list/{name}/set", s.handleListSet))
		r.Post("/list/{name}/delete", s.metrics.InstrumentHandler("POST", "/api/v1/list/{name}/delete", s.handleListDelete))
		r.Get("/list/{name}/at/{index}", s.metrics.InstrumentHandler("GET", "/api/v1/list/{name}/at/{index}", s.handleListAt))
		r.Get("/list/{name}/index", s.metrics.InstrumentHandler("GET", "/api/v1/list/{name}/index", s.handleListIndex))

		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

// StartServer builds the router around ord/mgr and blocks serving HTTP.
func StartServer(replicaID string, ord *order.Order, mgr *persist.Manager, config ServerConfig) error {
	metrics := NewMetrics()
	s := NewServer(replicaID, ord, mgr, config, metrics)
	r := NewRouter(s)

	addr := fmt.Sprintf(":%d", config.Port)
	log.Printf("listctl serve: listening on %s", addr)
	log.Printf("listctl serve: metrics at http://localhost%s/metrics", addr)
	return http.ListenAndServe(addr, r)
}
