package v1

import (
	"math"
	"net/http"
	"strconv"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/:id", handler.GetDetails)
	}
}

// parseJobQuery reads the pool filters shared by /jobs and /matches.
func parseJobQuery(c *gin.Context) domain.JobQuery {
	remoteOnly, _ := strconv.ParseBool(c.Query("remote_only"))
	return domain.JobQuery{
		Search:          c.Query("search"),
		Location:        c.Query("location"),
		JobType:         c.Query("job_type"),
		ExperienceLevel: c.Query("experience_level"),
		RemoteOnly:      remoteOnly,
	}
}

// List godoc
// @Summary      List active jobs
// @Description  Active jobs synced from Airtable, newest posted first
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        search            query  string  false  "Search in title, company, description, requirements"
// @Param        location          query  string  false  "Location substring"
// @Param        job_type          query  string  false  "Full-time, Part-time, Contract, Remote"
// @Param        experience_level  query  string  false  "Entry, Mid, Senior, Executive"
// @Param        remote_only       query  bool    false  "Only remote jobs"
// @Param        page              query  int     false  "Page number"      default(1)
// @Param        page_size         query  int     false  "Items per page"   default(20)
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, total, err := h.jobUC.ListActiveJobs(c, parseJobQuery(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", domain.PaginatedResult[domain.Job]{
		Data:       jobs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

// GetDetails godoc
// @Summary      Get job details
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	job, err := h.jobUC.GetJob(c, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}
