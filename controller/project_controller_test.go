// api/controller/project_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact-uk/impact/api/controller"
	api_errors "github.com/aiimpact-uk/impact/api/errors"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/test/mock"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupProjectRouter(svc *mock.ProjectService) *gin.Engine {
	r := gin.New()
	api := r.Group("/")
	controller.NewProjectController(svc).RegisterRoutes(api)
	return r
}

func TestProjectController(t *testing.T) {
	svc := &mock.ProjectService{}
	router := setupProjectRouter(svc)

	t.Run("CreateProject_Success", func(t *testing.T) {
		svc.On("CreateProject", tmock.Anything, tmock.Anything).
			Return(&model.Project{ID: "p-1", Title: "Loan scoring"}, nil).Once()

		body := strings.NewReader(`{"title":"Loan scoring"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/projects", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created model.Project
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, "p-1", created.ID)
	})

	t.Run("CreateProject_Conflict", func(t *testing.T) {
		svc.On("CreateProject", tmock.Anything, tmock.Anything).
			Return(nil, api_errors.ErrProjectConflict).Once()

		body := strings.NewReader(`{"title":"Loan scoring"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/projects", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("UpdateProject_Success", func(t *testing.T) {
		svc.On("UpdateProject", tmock.Anything, tmock.Anything).
			Return(&model.Project{ID: "p-1", Title: "Renamed"}, nil).Once()

		body := strings.NewReader(`{"title":"Renamed"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/projects/p-1", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UpdateProject_NotFound", func(t *testing.T) {
		svc.On("UpdateProject", tmock.Anything, tmock.Anything).
			Return(nil, api_errors.ErrProjectNotFound).Once()

		body := strings.NewReader(`{"title":"Renamed"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/projects/missing", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeleteProject_Success", func(t *testing.T) {
		svc.On("DeleteProject", tmock.Anything, "p-1").Return(nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/projects/p-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("GetProject_NotFound", func(t *testing.T) {
		svc.On("GetProject", tmock.Anything, "missing").
			Return(nil, api_errors.ErrProjectNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/projects/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ListProjects_Success", func(t *testing.T) {
		svc.On("ListProjects", tmock.Anything, 10, 0).
			Return([]*model.Project{{ID: "p-1"}, {ID: "p-2"}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/projects", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ListProjects_BadPagination", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/projects?limit=nope", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SearchProjects_Success", func(t *testing.T) {
		svc.On("SearchProjects", tmock.Anything, tmock.MatchedBy(func(c model.ProjectSearchCriteria) bool {
			return c.Title == "loan" && !c.FromDate.IsZero()
		})).Return([]*model.Project{{ID: "p-1"}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/projects/search?title=loan&from=2026-01-01T00:00:00Z", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("SearchProjects_BadDate", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/projects/search?from=yesterday", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
