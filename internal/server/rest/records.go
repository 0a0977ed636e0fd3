package rest

import (
	"net/http"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// recordHandler serves one owned collection.
type recordHandler[R models.Record] struct {
	srv       *RESTServer
	svc       *services.RecordService[R]
	kind      string
	newRecord func() R
}

func newRecordHandler[R models.Record](srv *RESTServer, svc *services.RecordService[R], kind string, newRecord func() R) *recordHandler[R] {
	return &recordHandler[R]{srv: srv, svc: svc, kind: kind, newRecord: newRecord}
}

func newDetection() *models.Detection { return &models.Detection{} }

func newClaim() *models.Claim { return &models.Claim{} }

func (h *recordHandler[R]) routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

func (h *recordHandler[R]) list(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	items, err := h.svc.List(r.Context(), caller)
	if err != nil {
		h.srv.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *recordHandler[R]) create(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	rec := h.newRecord()
	if err := decodeJSON(w, r, rec); err != nil {
		h.srv.respondWithServiceError(w, r, err)
		return
	}

	created, err := h.svc.Create(r.Context(), caller, rec)
	if err != nil {
		h.srv.respondWithServiceError(w, r, err)
		return
	}
	if h.srv.metrics != nil {
		h.srv.metrics.RecordCreated(h.kind)
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *recordHandler[R]) get(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	rec, err := h.svc.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.srv.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

func (h *recordHandler[R]) delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.srv.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
