package v1

import (
	"errors"
	"io"
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/resume"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
}

func NewResumeHandler(protected *gin.RouterGroup, resumeUC domain.ResumeUsecase, limit gin.HandlerFunc) {
	handler := &ResumeHandler{resumeUC: resumeUC}
	protected.POST("/resumes", limit, handler.Upload)
}

// Upload godoc
// @Summary      Upload a resume
// @Description  Stores a PDF or text resume, analyzes it and merges the extracted skills into the profile
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Resume (.pdf or .txt, max 5 MB)"
// @Success      201   {object}  response.Response{data=domain.ResumeUpload}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Router       /resumes [post]
func (h *ResumeHandler) Upload(c *gin.Context) {
	// Multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, resume.MaxFileSize+64<<10)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.TooLarge("Resume exceeds the 5 MB limit"))
			return
		}
		c.Error(apperror.BadRequest("Form field 'file' is required"))
		return
	}
	if fileHeader.Size > resume.MaxFileSize {
		c.Error(apperror.TooLarge("Resume exceeds the 5 MB limit"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, resume.MaxFileSize+1))
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}

	result, err := h.resumeUC.Upload(c, c.GetString(string(domain.KeyUserID)), fileHeader.Filename, data)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume uploaded", result)
}
