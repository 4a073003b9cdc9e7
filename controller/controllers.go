// api/controller/controllers.go
package controller

import (
	"github.com/aiimpact-uk/impact/api/corpus"
	"github.com/aiimpact-uk/impact/api/search"
	"github.com/aiimpact-uk/impact/api/service"
	"github.com/aiimpact-uk/impact/api/util"
)

type Controllers struct {
	Project  *ProjectController
	Analysis *AnalysisController
}

func InitializeControllers(services *service.Services, searchRepo search.Repository, store *corpus.Store, validationUtil *util.ValidationUtil) *Controllers {
	return &Controllers{
		Project:  NewProjectController(services.Project),
		Analysis: NewAnalysisController(services.Analysis, services.Report, searchRepo, store, validationUtil),
	}
}
