package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/runtime"
	itemsvc "github.com/rzbill/lodex/internal/services/items"
	"github.com/rzbill/lodex/pkg/log"
)

// ItemsController serves range queries and bulk mutations of a collection.
// Every endpoint accepts an optional "collection"; the configured one is
// used otherwise.
type ItemsController struct {
	svc    *itemsvc.Service
	logger log.Logger
}

// NewItemsController creates a new items controller.
func NewItemsController(svc *itemsvc.Service, logger log.Logger) *ItemsController {
	if logger == nil {
		logger = log.Nop()
	}
	return &ItemsController{svc: svc, logger: logger}
}

// RegisterRoutes registers item routes with the given mux.
func (c *ItemsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/items", c.handleForward)
	mux.HandleFunc("/v1/items/reverse", c.handleReverse)
	mux.HandleFunc("/v1/items/count", c.handleCount)
	mux.HandleFunc("/v1/items/seed", c.handleSeed)
	mux.HandleFunc("/v1/items/clear", c.handleClear)
	mux.HandleFunc("/v1/items/changes", c.handleChanges)
}

// handleForward serves GET /v1/items?lower=&offset=&limit=&filter=.
func (c *ItemsController) handleForward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	qs := r.URL.Query()
	q := catalog.ForwardQuery{
		Lower:  qs.Get("lower"),
		Offset: parseOffset(qs.Get("offset")),
		Limit:  parseLimit(qs.Get("limit"), defaultLimit),
		Filter: qs.Get("filter"),
	}
	if q.Offset < 0 || q.Limit < 0 {
		writeError(w, http.StatusBadRequest, "Invalid offset or limit")
		return
	}
	items, err := c.svc.Forward(r.Context(), qs.Get("collection"), q)
	if err != nil {
		c.fail(w, "forward", err)
		return
	}
	writeJSON(w, itemsResp{Items: nonNil(items)})
}

// handleReverse serves GET /v1/items/reverse?lower=&upper=&upper_id=&limit=&filter=.
// Items are returned in descending order.
func (c *ItemsController) handleReverse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	qs := r.URL.Query()
	q := catalog.ReverseQuery{
		Lower:   qs.Get("lower"),
		Upper:   qs.Get("upper"),
		UpperID: qs.Get("upper_id"),
		Limit:   parseLimit(qs.Get("limit"), defaultLimit),
		Filter:  qs.Get("filter"),
	}
	if q.Limit < 0 {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	items, err := c.svc.Reverse(r.Context(), qs.Get("collection"), q)
	if err != nil {
		c.fail(w, "reverse", err)
		return
	}
	writeJSON(w, itemsResp{Items: nonNil(items)})
}

// handleCount serves GET /v1/items/count?filter=.
func (c *ItemsController) handleCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	qs := r.URL.Query()
	n, err := c.svc.Count(r.Context(), qs.Get("collection"), qs.Get("filter"))
	if err != nil {
		c.fail(w, "count", err)
		return
	}
	writeJSON(w, countResp{Count: n})
}

// handleSeed serves POST /v1/items/seed with {"count": N, "seed": S}.
func (c *ItemsController) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req seedReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	n, err := c.svc.Seed(r.Context(), req.Collection, req.Count, req.Seed)
	if err != nil {
		c.fail(w, "seed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(seedResp{Inserted: n})
}

// handleClear serves POST /v1/items/clear. The body is optional.
func (c *ItemsController) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req clearReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if err := c.svc.Clear(r.Context(), req.Collection); err != nil {
		c.fail(w, "clear", err)
		return
	}
	writeNoContent(w)
}

// handleChanges streams one "change" event per bulk mutation until the
// client disconnects.
func (c *ItemsController) handleChanges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	collection := r.URL.Query().Get("collection")
	if _, err := c.svc.Store(collection); err != nil {
		c.fail(w, "changes", err)
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	sink := newSSESink(w)
	var seq uint64
	_ = c.svc.Watch(ctx, collection, func() {
		seq++
		if err := sink.Send("change", map[string]any{"seq": seq, "atMs": time.Now().UnixMilli()}); err != nil {
			cancel()
		}
	})
}

func (c *ItemsController) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case itemsvc.IsInvalid(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, runtime.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		c.logger.Error("request failed", log.Operation(op), log.Err(err))
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

func nonNil(items []catalog.Item) []catalog.Item {
	if items == nil {
		return []catalog.Item{}
	}
	return items
}
