package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veNNNx/time-reporting-tool/internal/service"
)

type systemSettingsPayload struct {
	SiteName     string `json:"site_name"`
	Announcement string `json:"announcement"`
}

// GetSystemSettings 返回当前系统设置
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się pobrać ustawień")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site_name":    settings.SiteName,
		"announcement": settings.Announcement,
	})
}

// UpdateSystemSettings 更新站点名称与仪表盘公告
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsPayload
	if !bindJSON(c, &payload, "Nieprawidłowe dane ustawień") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:     payload.SiteName,
		Announcement: payload.Announcement,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się zapisać ustawień")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site_name":    settings.SiteName,
		"announcement": settings.Announcement,
	})
}
