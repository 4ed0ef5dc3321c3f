package form_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/form"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/paging"
)

type stubRepo struct {
	titleTaken bool
	savedID    int
	saved      *form.Form
	updated    bool
	deleted    bool
}

func (s *stubRepo) TitleExists(ctx context.Context, title string) (bool, error) {
	return s.titleTaken, nil
}

func (s *stubRepo) Save(ctx context.Context, title string, fields []form.Field) (int, error) {
	s.saved = &form.Form{FormID: s.savedID, Title: title, Fields: fields}
	return s.savedID, nil
}

func (s *stubRepo) FindWithFields(ctx context.Context, formID int) (*form.Form, error) {
	if s.saved == nil || s.saved.FormID != formID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.saved, nil
}

func (s *stubRepo) Update(ctx context.Context, payload *form.Form) (bool, error) {
	return s.updated, nil
}

func (s *stubRepo) Delete(ctx context.Context, formID int) (bool, error) {
	return s.deleted, nil
}

func (s *stubRepo) Paged(ctx context.Context, req paging.Request) (paging.Result[form.Form], error) {
	if err := req.Validate(); err != nil {
		return paging.Result[form.Form]{}, err
	}
	return paging.Result[form.Form]{Rows: []form.Form{}, TotalCount: 0, FilteredCount: 0}, nil
}

func newRouter(repo form.Repository) http.Handler {
	router := chi.NewRouter()
	form.NewHandler(repo, nil, nil).Mount(router, "/forms")
	return router
}

func TestSaveRejectsBlankTitle(t *testing.T) {
	router := newRouter(&stubRepo{savedID: 1})

	body := strings.NewReader(`{"title":"   ","fields":[]}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/forms", body))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
}

func TestSaveRejectsDuplicateTitle(t *testing.T) {
	repo := &stubRepo{titleTaken: true, savedID: 1}
	router := newRouter(repo)

	body := strings.NewReader(`{"title":"Survey1","fields":[]}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/forms", body))

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", recorder.Code)
	}
	if repo.saved != nil {
		t.Fatal("save must not be invoked for a duplicate title")
	}
}

func TestSaveReturnsNewFormID(t *testing.T) {
	repo := &stubRepo{savedID: 42}
	router := newRouter(repo)

	body := strings.NewReader(`{"title":"Survey1","fields":[{"label":"Name","isRequired":true}]}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/forms", body))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", recorder.Code)
	}
	if got := recorder.Body.String(); !strings.Contains(got, `"formId":42`) {
		t.Fatalf("unexpected body: %s", got)
	}
	if repo.saved == nil || len(repo.saved.Fields) != 1 {
		t.Fatal("fields were not forwarded to the store")
	}
}

func TestGetFormNotFound(t *testing.T) {
	router := newRouter(&stubRepo{savedID: 1})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/forms/7", nil))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", recorder.Code)
	}
}

func TestUpdateSoftFailureMapsToBadRequest(t *testing.T) {
	router := newRouter(&stubRepo{updated: false})

	body := strings.NewReader(`{"title":"Renamed","fields":[]}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/forms/7", body))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
}

func TestDeleteReportsResult(t *testing.T) {
	router := newRouter(&stubRepo{deleted: true})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/forms/7", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
}

func TestPagedRejectsInvalidPage(t *testing.T) {
	router := newRouter(&stubRepo{})

	body := strings.NewReader(`{"skip":-1,"pageSize":10}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/forms/paged", body))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
}
