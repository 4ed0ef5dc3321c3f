package form

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/audit"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/events"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/httpx"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/paging"
)

const auditEntity = "form"

// Handler exposes the form endpoints.
type Handler struct {
	repo      Repository
	publisher *events.Publisher
	recorder  *audit.Recorder
}

// NewHandler constructs a Handler backed by the provided repository.
// Publisher and recorder may be nil.
func NewHandler(repo Repository, publisher *events.Publisher, recorder *audit.Recorder) *Handler {
	return &Handler{repo: repo, publisher: publisher, recorder: recorder}
}

// Mount registers the form routes on the provided router under the supplied base path.
func (h *Handler) Mount(router chi.Router, basePath string) {
	path := strings.TrimSpace(basePath)
	if path == "" {
		path = "/forms"
	}

	router.Route(path, func(r chi.Router) {
		r.Post("/", h.saveForm)
		r.Post("/paged", h.pagedForms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getForm)
			r.Put("/", h.updateForm)
			r.Delete("/", h.deleteForm)
		})
	})
}

type saveFormRequest struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

func (h *Handler) saveForm(w http.ResponseWriter, r *http.Request) {
	var payload saveFormRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		httpx.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	exists, err := h.repo.TitleExists(r.Context(), title)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if exists {
		httpx.Error(w, http.StatusConflict, "form title already exists")
		return
	}

	formID, err := h.repo.Save(r.Context(), title, payload.Fields)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publisher.Publish(r.Context(), events.FormCreated, map[string]any{"formId": formID, "title": title})
	h.record(r, audit.ActionCreate, formID, map[string]any{"title": title, "fieldCount": len(payload.Fields)})

	httpx.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"formId": formID}})
}

func (h *Handler) getForm(w http.ResponseWriter, r *http.Request) {
	formID, err := parseID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	entity, err := h.repo.FindWithFields(r.Context(), formID)
	if err != nil {
		if IsNotFound(err) {
			httpx.Error(w, http.StatusNotFound, "form not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"data": entity.ToDTO()})
}

func (h *Handler) pagedForms(w http.ResponseWriter, r *http.Request) {
	var req paging.Request
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.repo.Paged(r.Context(), req)
	if err != nil {
		if errors.Is(err, paging.ErrInvalidPage) {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"data": result})
}

func (h *Handler) updateForm(w http.ResponseWriter, r *http.Request) {
	formID, err := parseID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload saveFormRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		httpx.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	entity := &Form{FormID: formID, Title: title, Fields: payload.Fields}
	ok, err := h.repo.Update(r.Context(), entity)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "update failed")
		return
	}

	h.publisher.Publish(r.Context(), events.FormUpdated, map[string]any{"formId": formID, "title": title})
	h.record(r, audit.ActionUpdate, formID, map[string]any{"title": title, "fieldCount": len(payload.Fields)})

	httpx.JSON(w, http.StatusOK, map[string]any{"data": true})
}

func (h *Handler) deleteForm(w http.ResponseWriter, r *http.Request) {
	formID, err := parseID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.repo.Delete(r.Context(), formID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "delete failed")
		return
	}

	h.publisher.Publish(r.Context(), events.FormDeleted, map[string]any{"formId": formID})
	h.record(r, audit.ActionDelete, formID, nil)

	httpx.JSON(w, http.StatusOK, map[string]any{"data": true})
}

func (h *Handler) record(r *http.Request, action string, formID int, payload map[string]any) {
	if err := h.recorder.Record(r.Context(), action, auditEntity, formID, payload); err != nil {
		log.Printf("form: audit record failed: %v", err)
	}
}

func parseID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid form id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
