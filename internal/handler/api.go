package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/veNNNx/time-reporting-tool/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	timesheets *service.TimesheetService
	reports    *service.ReportService
	machines   *service.MachineService
	tags       *service.TagService
	roster     *service.RosterService
	system     *service.SystemSettingService
}

const siteSettingsContextKey = "__site_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	return &API{
		timesheets: service.NewTimesheetService(db),
		reports:    service.NewReportService(db),
		machines:   service.NewMachineService(db),
		tags:       service.NewTagService(db),
		roster:     service.NewRosterService(db),
		system:     service.NewSystemSettingService(db),
	}
}

func (a *API) siteSettings(c *gin.Context) service.SystemSettings {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(service.SystemSettings); ok {
			return view
		}
	}

	settings, err := a.system.GetSettings()
	if err != nil {
		c.Error(err)
	}
	settings.SiteName = strings.TrimSpace(settings.SiteName)
	if settings.SiteName == "" {
		settings.SiteName = "Ewidencja godzin"
	}

	c.Set(siteSettingsContextKey, settings)
	return settings
}
