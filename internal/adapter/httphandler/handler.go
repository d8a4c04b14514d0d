package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// POST   v1/carts                        (201 Created)
// GET    v1/carts/{id}                   (200 OK, 404 Not found)
// POST   v1/carts/{id}/lines             JSON {merchandiseId, quantity}
// PATCH  v1/carts/{id}/lines             JSON [{id, merchandiseId, quantity}]
// DELETE v1/carts/{id}/lines/{lineID}

type CartsHandler struct {
	carts port.CartManager
}

func RegisterCarts(mux *http.ServeMux, carts port.CartManager) {
	h := CartsHandler{carts}
	mux.HandleFunc("POST /v1/carts", h.PostCart)
	mux.HandleFunc("GET /v1/carts/{id}", h.GetCart)
	mux.HandleFunc("POST /v1/carts/{id}/lines", h.PostLine)
	mux.HandleFunc("PATCH /v1/carts/{id}/lines", h.PatchLines)
	mux.HandleFunc("DELETE /v1/carts/{id}/lines/{lineID}", h.DeleteLine)
}

func (h CartsHandler) PostCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PostCart"
	log := requestLog(r, op)

	cart, err := h.carts.CreateCart(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, fromCart(cart))
	log.Info("cart created", "cartID", cart.ID)
}

func (h CartsHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.GetCart"
	log := requestLog(r, op)

	cart, err := h.carts.GetCart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromCart(cart))
}

func (h CartsHandler) PostLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PostLine"
	log := requestLog(r, op)

	var line CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	cart, err := h.carts.AddToCart(r.Context(), r.PathValue("id"), line.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromCart(cart))
}

func (h CartsHandler) PatchLines(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PatchLines"
	log := requestLog(r, op)

	var lines []CartLineUpdate
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	cart, err := h.carts.UpdateCart(r.Context(), r.PathValue("id"), toLineUpdates(lines))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromCart(cart))
}

func (h CartsHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.DeleteLine"
	log := requestLog(r, op)

	cart, err := h.carts.RemoveFromCart(r.Context(), r.PathValue("id"), r.PathValue("lineID"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromCart(cart))
}

// GET v1/products?q=&sort=&reverse=
// GET v1/products/{handle}
// GET v1/products/{id}/recommendations
// GET v1/collections
// GET v1/collections/{handle}
// GET v1/collections/{handle}/products?sort=&reverse=

type CatalogHandler struct {
	catalog port.CatalogReader
}

func RegisterCatalog(mux *http.ServeMux, catalog port.CatalogReader) {
	h := CatalogHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{handle}", h.GetProduct)
	mux.HandleFunc("GET /v1/products/{id}/recommendations", h.GetRecommendations)
	mux.HandleFunc("GET /v1/collections", h.GetCollections)
	mux.HandleFunc("GET /v1/collections/{handle}", h.GetCollection)
	mux.HandleFunc("GET /v1/collections/{handle}/products", h.GetCollectionProducts)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := requestLog(r, op)

	sortKey, reverse, err := parseSort(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ps, err := h.catalog.GetProducts(r.Context(), domain.ProductQuery{
		Query:   r.URL.Query().Get("q"),
		SortKey: sortKey,
		Reverse: reverse,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromProducts(ps))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := requestLog(r, op)

	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromProduct(p))
}

func (h CatalogHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetRecommendations"
	log := requestLog(r, op)

	ps, err := h.catalog.GetProductRecommendations(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromProducts(ps))
}

func (h CatalogHandler) GetCollections(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCollections"
	log := requestLog(r, op)

	cs, err := h.catalog.GetCollections(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Collection, len(cs))
	for i := range cs {
		out[i] = fromCollection(cs[i])
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCollection"
	log := requestLog(r, op)

	c, err := h.catalog.GetCollection(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromCollection(c))
}

func (h CatalogHandler) GetCollectionProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCollectionProducts"
	log := requestLog(r, op)

	sortKey, reverse, err := parseSort(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ps, err := h.catalog.GetCollectionProducts(r.Context(), domain.CollectionProductsQuery{
		Collection: r.PathValue("handle"),
		SortKey:    sortKey,
		Reverse:    reverse,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromProducts(ps))
}

// parseSort accepts either a sorting slug such as "price-desc" or a raw
// sort key with an optional reverse flag.
func parseSort(q url.Values) (sortKey string, reverse bool, err error) {
	sort := q.Get("sort")
	if item := domain.SortBySlug(sort); item.Slug != "" {
		return item.SortKey, item.Reverse, nil
	}

	if v := q.Get("reverse"); v != "" {
		reverse, err = strconv.ParseBool(v)
		if err != nil {
			return "", false, errors.New("invalid reverse flag")
		}
	}
	return sort, reverse, nil
}

// GET v1/pages
// GET v1/pages/{handle}
// GET v1/menus/{handle}

type ContentHandler struct {
	content port.ContentReader
}

func RegisterContent(mux *http.ServeMux, content port.ContentReader) {
	h := ContentHandler{content}
	mux.HandleFunc("GET /v1/pages", h.GetPages)
	mux.HandleFunc("GET /v1/pages/{handle}", h.GetPage)
	mux.HandleFunc("GET /v1/menus/{handle}", h.GetMenu)
}

func (h ContentHandler) GetPages(w http.ResponseWriter, r *http.Request) {
	const op = "ContentHandler.GetPages"
	log := requestLog(r, op)

	ps, err := h.content.GetPages(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Page, len(ps))
	for i := range ps {
		out[i] = fromPage(ps[i])
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	const op = "ContentHandler.GetPage"
	log := requestLog(r, op)

	p, err := h.content.GetPage(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromPage(p))
}

func (h ContentHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	const op = "ContentHandler.GetMenu"
	log := requestLog(r, op)

	m, err := h.content.GetMenu(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Menu, len(m))
	for i := range m {
		out[i] = Menu{Title: m[i].Title, Path: m[i].Path}
	}
	writeJSON(w, log, http.StatusOK, out)
}

func requestLog(r *http.Request, op string) *slog.Logger {
	return slog.With("op", op, "requestID", RequestID(r.Context()))
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// writeError maps error kinds onto response statuses. Upstream failures
// other than reported errors surface as 502.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var upstreamErr *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		log.Info("not found", "err", err)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid input", "err", err)
	case errors.As(err, &upstreamErr):
		status := upstreamErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		http.Error(w, upstreamErr.Message, status)
		log.Warn("upstream reported error", "err", err)
	default:
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		log.Error("request failed", "err", err)
	}
}
