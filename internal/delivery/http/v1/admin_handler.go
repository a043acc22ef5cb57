package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// NewAdminHandler registers the sync dashboard. guard runs before every route, actionLimit before mutating ones.
func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, guard, actionLimit gin.HandlerFunc) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin", guard)
	{
		admin.GET("/stats", handler.GetStats)
		admin.POST("/sync", actionLimit, handler.TriggerSync)
		admin.GET("/sync/logs", handler.ListSyncLogs)
		admin.GET("/jobs/export", handler.ExportJobs)
		admin.POST("/notifications/digest", actionLimit, handler.SendDigests)
	}
}

// GetStats godoc
// @Summary      Get admin dashboard statistics
// @Description  Job counts per status, profile count and the last sync run
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.AdminStats}
// @Failure      403  {object}  response.Response
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}

// TriggerSync godoc
// @Summary      Run the Airtable sync now
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.SyncResult}
// @Failure      409  {object}  response.Response
// @Router       /admin/sync [post]
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	result, err := h.adminUC.TriggerSync(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sync completed", result)
}

// ListSyncLogs godoc
// @Summary      List sync runs
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query  int  false  "Page number"     default(1)
// @Param        page_size  query  int  false  "Items per page"  default(20)
// @Success      200  {object}  response.Response
// @Router       /admin/sync/logs [get]
func (h *AdminHandler) ListSyncLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, err := h.adminUC.ListSyncLogs(c, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sync logs retrieved", logs)
}

// ExportJobs godoc
// @Summary      Export all jobs as XLSX
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /admin/jobs/export [get]
func (h *AdminHandler) ExportJobs(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.adminUC.ExportJobs(c, &buf); err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("jobs-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SendDigests godoc
// @Summary      Email match digests to every opted-in user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.DigestReport}
// @Failure      503  {object}  response.Response
// @Router       /admin/notifications/digest [post]
func (h *AdminHandler) SendDigests(c *gin.Context) {
	report, err := h.adminUC.SendDigests(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Digests processed", report)
}
