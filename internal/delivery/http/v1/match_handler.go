package v1

import (
	"net/http"
	"strconv"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUC domain.MatchUsecase
}

func NewMatchHandler(protected *gin.RouterGroup, matchUC domain.MatchUsecase) {
	handler := &MatchHandler{matchUC: matchUC}
	protected.GET("/matches", handler.FindMatches)
}

// FindMatches godoc
// @Summary      Ranked job matches for the current user
// @Description  Scores every active job against the caller's profile (0-100)
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        search            query  string  false  "Search in title, company, description, requirements"
// @Param        location          query  string  false  "Location substring"
// @Param        job_type          query  string  false  "Exact job type"
// @Param        experience_level  query  string  false  "Exact experience level"
// @Param        remote_only       query  bool    false  "Only remote jobs"
// @Param        min_score         query  int     false  "Drop matches below this score"
// @Param        limit             query  int     false  "Maximum matches returned"
// @Success      200  {object}  response.Response{data=domain.MatchResult}
// @Failure      404  {object}  response.Response
// @Router       /matches [get]
func (h *MatchHandler) FindMatches(c *gin.Context) {
	filters := domain.MatchFilters{JobQuery: parseJobQuery(c)}

	if v := c.Query("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			c.Error(apperror.BadRequest("min_score must be between 0 and 100"))
			return
		}
		filters.MinScore = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.Error(apperror.BadRequest("limit must be a positive number"))
			return
		}
		filters.Limit = n
	}

	result, err := h.matchUC.FindMatches(c, c.GetString(string(domain.KeyUserID)), filters)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Matches retrieved", result)
}
