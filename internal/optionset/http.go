package optionset

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

const (
	auditEntitySet   = "option_set"
	auditEntityValue = "option_value"
)

// Handler exposes the option set endpoints.
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

// Mount registers the option set routes on the provided router under the supplied base path.
func (h *Handler) Mount(router chi.Router, basePath string) {
	path := strings.TrimSpace(basePath)
	if path == "" {
		path = "/option-sets"
	}

	router.Route(path, func(r chi.Router) {
		r.Get("/", h.listSets)
		r.Post("/", h.createSet)
		r.Post("/paged", h.pagedSets)
		r.Route("/values/{valueID}", func(r chi.Router) {
			r.Put("/", h.updateValue)
			r.Delete("/", h.deleteValue)
		})
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSet)
			r.Put("/", h.updateSet)
			r.Delete("/", h.deleteSet)
			r.Get("/values", h.listValues)
			r.Post("/values", h.addValue)
		})
	})
}

type setRequest struct {
	Name string `json:"name"`
}

type valueRequest struct {
	Value    string `json:"value"`
	OptionID int    `json:"optionId"`
}

func (h *Handler) listSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.repo.List(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"data": sets})
}

func (h *Handler) pagedSets(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) getSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseSetID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	entity, err := h.repo.Find(r.Context(), id)
	if err != nil {
		if IsNotFound(err) {
			httpx.Error(w, http.StatusNotFound, "option set not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"data": entity})
}

func (h *Handler) createSet(w http.ResponseWriter, r *http.Request) {
	var payload setRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		httpx.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	entity, err := h.repo.Create(r.Context(), name)
	if err != nil {
		if IsConflict(err) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publisher.Publish(r.Context(), events.OptionSetCreated, map[string]any{"optionId": entity.OptionID, "name": name})
	h.record(r, audit.ActionCreate, auditEntitySet, entity.OptionID, map[string]any{"name": name})

	httpx.JSON(w, http.StatusCreated, map[string]any{"data": entity})
}

func (h *Handler) updateSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseSetID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload setRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		httpx.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	ok, err := h.repo.Update(r.Context(), id, name)
	if err != nil {
		if IsConflict(err) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "update failed")
		return
	}

	h.publisher.Publish(r.Context(), events.OptionSetUpdated, map[string]any{"optionId": id, "name": name})
	h.record(r, audit.ActionUpdate, auditEntitySet, id, map[string]any{"name": name})

	httpx.JSON(w, http.StatusOK, map[string]any{"data": true})
}

func (h *Handler) deleteSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseSetID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "delete failed")
		return
	}

	h.publisher.Publish(r.Context(), events.OptionSetDeleted, map[string]any{"optionId": id})
	h.record(r, audit.ActionDelete, auditEntitySet, id, nil)

	httpx.JSON(w, http.StatusOK, map[string]any{"data": true})
}

func (h *Handler) listValues(w http.ResponseWriter, r *http.Request) {
	id, err := parseSetID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	values, err := h.repo.Values(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"data": values})
}

func (h *Handler) addValue(w http.ResponseWriter, r *http.Request) {
	id, err := parseSetID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload valueRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	value := strings.TrimSpace(payload.Value)
	if value == "" {
		httpx.Error(w, http.StatusBadRequest, "value is required")
		return
	}

	ok, err := h.repo.AddValue(r.Context(), id, value)
	if err != nil {
		if IsConflict(err) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "add value failed")
		return
	}

	h.record(r, audit.ActionCreate, auditEntityValue, id, map[string]any{"value": value})

	httpx.JSON(w, http.StatusCreated, map[string]any{"data": true})
}

func (h *Handler) updateValue(w http.ResponseWriter, r *http.Request) {
	valueID, err := parseValueID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload valueRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	value := strings.TrimSpace(payload.Value)
	if value == "" {
		httpx.Error(w, http.StatusBadRequest, "value is required")
		return
	}

	ok, err := h.repo.UpdateValue(r.Context(), valueID, value, payload.OptionID)
	if err != nil {
		if IsConflict(err) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "update failed")
		return
	}

	h.record(r, audit.ActionUpdate, auditEntityValue, valueID, map[string]any{"value": value})

	httpx.JSON(w, http.StatusOK, map[string]any{"data": true})
}

func (h *Handler) deleteValue(w http.ResponseWriter, r *http.Request) {
	valueID, err := parseValueID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.repo.DeleteValue(r.Context(), valueID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "delete failed")
		return
	}

	h.record(r, audit.ActionDelete, auditEntityValue, valueID, nil)

	httpx.JSON(w, http.StatusOK, map[string]any{"data": true})
}

func (h *Handler) record(r *http.Request, action, entity string, entityID int, payload map[string]any) {
	if err := h.recorder.Record(r.Context(), action, entity, entityID, payload); err != nil {
		log.Printf("optionset: audit record failed: %v", err)
	}
}

func parseSetID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid option set id")
	}
	return id, nil
}

func parseValueID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "valueID"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid option value id")
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
