package router

import (
	"fmt"
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/veNNNx/time-reporting-tool/internal/handler"
)

const requestIDHeader = "X-Request-Id"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 请求标识，便于日志关联
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set(requestIDHeader, uuid.NewString())
		c.Next()
	})

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("timesheet_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"eq": func(a, b interface{}) bool {
			return a == b
		},
		"formatHours": func(hours float64) string {
			return fmt.Sprintf("%.2f", hours)
		},
		"deref": func(v *uint) uint {
			if v == nil {
				return 0
			}
			return *v
		},
	})
	r.LoadHTMLGlob("web/template/*.html")

	// 静态文件服务
	r.Static("/static", "./web/static")

	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)

	// 需要认证的路由
	auth := r.Group("")
	auth.Use(api.AuthRequired())
	{
		auth.GET("/", api.Dashboard)
		auth.POST("/", api.SaveDashboard)

		// 仅管理员可见
		admin := auth.Group("")
		admin.Use(api.AdminRequired())
		{
			admin.GET("/employer-report", api.EmployerReport)
			admin.POST("/employer-report", api.SaveEmployerReport)
			admin.GET("/machines-report", api.ShowMachinesReport)
			admin.POST("/machines-report", api.SaveMachinesReport)
			admin.GET("/monthly-report", api.ShowMonthlyReport)
			admin.GET("/monthly-report/export", api.ExportMonthlyReport)

			// API路由
			apiGroup := admin.Group("/api")
			{
				apiGroup.GET("/tags", api.GetTags)
				apiGroup.POST("/tags", api.CreateTag)
				apiGroup.PUT("/tags/:id", api.UpdateTag)
				apiGroup.DELETE("/tags/:id", api.DeleteTag)

				apiGroup.GET("/machines", api.ListMachines)
				apiGroup.POST("/machines", api.CreateMachine)
				apiGroup.DELETE("/machines/:id", api.DeleteMachine)

				apiGroup.GET("/settings", api.GetSystemSettings)
				apiGroup.PUT("/settings", api.UpdateSystemSettings)
			}
		}
	}

	return r
}
