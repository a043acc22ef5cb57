package v1

import (
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.GET("/me", handler.GetMe)
		profiles.PUT("/me", handler.UpdateMe)
	}
}

type UpdateProfileRequest struct {
	FullName           string   `json:"full_name"`
	Skills             []string `json:"skills"`
	Location           string   `json:"location"`
	ExperienceLevel    string   `json:"experience_level"`
	PreferredJobTypes  []string `json:"preferred_job_types"`
	PreferredLocations []string `json:"preferred_locations"`
	SalaryMin          *float64 `json:"salary_min"`
	SalaryMax          *float64 `json:"salary_max"`
	RemotePreference   string   `json:"remote_preference"`
	EmailNotifications bool     `json:"email_notifications"`
}

// GetMe godoc
// @Summary      Get my profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c, c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateMe godoc
// @Summary      Create or update my profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  body      UpdateProfileRequest  true  "Profile JSON"
// @Success      200      {object}  response.Response{data=domain.UserProfile}
// @Failure      400      {object}  response.Response
// @Router       /profiles/me [put]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile := &domain.UserProfile{
		FullName:           req.FullName,
		Skills:             req.Skills,
		Location:           req.Location,
		ExperienceLevel:    req.ExperienceLevel,
		PreferredJobTypes:  req.PreferredJobTypes,
		PreferredLocations: req.PreferredLocations,
		SalaryMin:          req.SalaryMin,
		SalaryMax:          req.SalaryMax,
		RemotePreference:   req.RemotePreference,
		EmailNotifications: req.EmailNotifications,
	}
	if err := h.profileUC.UpdateProfile(c, profile); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}
