// api/controller/project_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	api_errors "github.com/aiimpact-uk/impact/api/errors"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/service"
	"github.com/aiimpact-uk/impact/api/util"
	helper_util "github.com/aiimpact-uk/impact/api/util/helper"
)

type ProjectController struct {
	projectService service.IProjectService
}

func NewProjectController(projectService service.IProjectService) *ProjectController {
	return &ProjectController{
		projectService: projectService,
	}
}

// RegisterRoutes registers the API routes
func (pc *ProjectController) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("", pc.CreateProject)
		projects.PUT("/:id", pc.UpdateProject)
		projects.DELETE("/:id", pc.DeleteProject)
		projects.GET("/:id", pc.GetProject)
		projects.GET("", pc.ListProjects)
		projects.GET("/search", pc.SearchProjects)
	}
}

// CreateProject endpoint
func (pc *ProjectController) CreateProject(c *gin.Context) {
	var project model.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid project data", api_errors.ErrInvalidProjectData)
		return
	}

	createdProject, err := pc.projectService.CreateProject(c, project)
	if err != nil {
		switch {
		case errors.Is(err, api_errors.ErrProjectConflict):
			util.RespondWithError(c, http.StatusConflict, "Project already exists", err)
		case errors.Is(err, api_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		case errors.Is(err, api_errors.ErrInternalServer):
			util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		default:
			util.RespondWithError(c, http.StatusBadRequest, "Failed to create project", err)
		}
		return
	}

	c.JSON(http.StatusCreated, createdProject)
}

// UpdateProject endpoint
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	projectID := c.Param("id")
	var project model.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid project data", err)
		return
	}
	project.ID = projectID

	updatedProject, err := pc.projectService.UpdateProject(c, project)
	if err != nil {
		if errors.Is(err, api_errors.ErrProjectNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Project not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update project", err)
		}
		return
	}

	c.JSON(http.StatusOK, updatedProject)
}

// DeleteProject endpoint
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	projectID := c.Param("id")

	if err := pc.projectService.DeleteProject(c, projectID); err != nil {
		if errors.Is(err, api_errors.ErrProjectNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Project not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProject endpoint
func (pc *ProjectController) GetProject(c *gin.Context) {
	projectID := c.Param("id")

	project, err := pc.projectService.GetProject(c, projectID)
	if err != nil {
		if errors.Is(err, api_errors.ErrProjectNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Project not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve project", err)
		}
		return
	}

	c.JSON(http.StatusOK, project)
}

// ListProjects endpoint
func (pc *ProjectController) ListProjects(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	projects, err := pc.projectService.ListProjects(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// SearchProjects endpoint
func (pc *ProjectController) SearchProjects(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	criteria := model.ProjectSearchCriteria{
		Title:  c.Query("title"),
		Limit:  limit,
		Offset: offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date", err)
			return
		}
		criteria.FromDate = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date", err)
			return
		}
		criteria.ToDate = t
	}

	projects, err := pc.projectService.SearchProjects(c, criteria)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to search projects", err)
		return
	}

	c.JSON(http.StatusOK, projects)
}
