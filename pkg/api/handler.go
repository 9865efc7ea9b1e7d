package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/hazyhaar/ceramics-catalogue/pkg/images"
	"github.com/hazyhaar/ceramics-catalogue/pkg/kit"
	"github.com/hazyhaar/ceramics-catalogue/pkg/render"
)

// Options configures the router.
type Options struct {
	// AssetsDir is the directory holding the assets/ tree, served under /assets/.
	AssetsDir string
	// Images resolves item images; nil probes AssetsDir with 5 attempts.
	Images *images.Resolver
}

// NewRouter returns an http.Handler with every catalogue route.
func NewRouter(store *Store, reg *dict.Registry, opts Options) http.Handler {
	if opts.Images == nil {
		opts.Images = images.NewResolver(images.DirProber{Root: opts.AssetsDir}, images.DefaultMaxAttempts, store.logger)
	}
	h := &handler{
		ep:     newEndpoints(store, reg),
		store:  store,
		reg:    reg,
		images: opts.Images,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	mux.HandleFunc("GET /v1/collections", h.handleCollections)
	mux.HandleFunc("GET /v1/collections/{id}/aggregate", h.collection(h.ep.aggregate))
	mux.HandleFunc("GET /v1/collections/{id}/unprocessed", h.collection(h.ep.unprocessed))
	mux.HandleFunc("GET /v1/collections/{id}/groups", h.collection(h.ep.groups))
	mux.HandleFunc("GET /v1/collections/{id}/markers", h.collection(h.ep.markers))
	mux.HandleFunc("GET /v1/collections/{id}/charts/{name}", h.handleChart)
	mux.HandleFunc("GET /v1/collections/{id}/export.xlsx", h.handleExport)
	mux.HandleFunc("GET /v1/translate/{term}", h.handleTranslate)
	mux.HandleFunc("GET /v1/countries/{field}", h.handleCountry)
	mux.HandleFunc("GET /images/{id}/{inventory}", h.handleImage)
	mux.HandleFunc("GET /catalogue/{id}", h.handlePage)
	if opts.AssetsDir != "" {
		mux.Handle("GET /assets/", http.FileServer(http.Dir(opts.AssetsDir)))
	}

	return kit.RequestID(cors(mux))
}

type handler struct {
	ep     *endpoints
	store  *Store
	reg    *dict.Registry
	images *images.Resolver
}

// collection adapts an endpoint taking a collection ID to an HTTP handler.
func (h *handler) collection(ep kit.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		resp, err := ep(kit.WithCollection(r.Context(), id), &collectionReq{ID: id})
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *handler) handleCollections(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.collections(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.translate(r.Context(), &translateReq{Term: r.PathValue("term")})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCountry(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.country(r.Context(), &countryReq{Field: r.PathValue("field")})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	name := r.PathValue("name")
	format := render.SVG
	switch {
	case strings.HasSuffix(name, ".svg"):
		name = strings.TrimSuffix(name, ".svg")
	case strings.HasSuffix(name, ".png"):
		name, format = strings.TrimSuffix(name, ".png"), render.PNG
	default:
		writeError(w, http.StatusNotFound, "chart must end in .svg or .png")
		return
	}

	var buf bytes.Buffer
	if err := render.Chart(&buf, snap.Result, name, format); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := h.store.Snapshot(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	var buf bytes.Buffer
	if err := render.WriteWorkbook(&buf, snap.Result); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`-lacuna.xlsx"`)
	w.Write(buf.Bytes())
}

// handleImage redirects to the first existing image of an item, or to the
// collection placeholder.
func (h *handler) handleImage(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	inventory := r.PathValue("inventory")
	var item *catalogue.Item
	for i := range snap.Items {
		if snap.Items[i].Inventory == inventory {
			item = &snap.Items[i]
			break
		}
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "unknown inventory number")
		return
	}

	c := snap.Collection
	base := h.store.env.Geo().ImageBase(*item, c)
	res := h.images.Resolve(r.Context(), base, c.PrimaryImage(*item), c.Placeholder)
	http.Redirect(w, r, "/"+escapePath(res.Location), http.StatusFound)
}

func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	page := render.NewPage(snap.Collection, snap.Groups, snap.Result, len(snap.Markers), snap.LoadedAt, h.store.env.MaterialImage)
	var buf bytes.Buffer
	if err := render.WritePage(&buf, page); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// --- health ---

type healthResponse struct {
	Status       string `json:"status"`
	Collections  int    `json:"collections"`
	Loaded       int    `json:"loaded"`
	Dictionaries int    `json:"dictionaries"`
	TotalEntries int    `json:"total_entries"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:       "ok",
		Collections:  len(h.store.Collections()),
		Dictionaries: h.reg.DictCount(),
		TotalEntries: h.reg.TotalEntries(),
	}
	for _, c := range h.store.Collections() {
		if _, err := h.store.Snapshot(c.ID); err == nil {
			resp.Loaded++
		}
	}
	if resp.Loaded < resp.Collections {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownCollection), errors.Is(err, render.ErrUnknownChart), errors.Is(err, render.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, ErrNotLoaded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func escapePath(p string) string {
	parts := strings.Split(path.Clean(p), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+kit.RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
