package handler

import "github.com/gin-gonic/gin"

// EmployerReport 管理员本人的工时页。首页对管理员展示的是全员表，
// 这里提供一个单独入口让管理员用自助表单登记自己的工时。
func (a *API) EmployerReport(c *gin.Context) {
	a.selfTimesheet(c, "employer_report.html", "Godziny pracodawcy")
}

// SaveEmployerReport 保存管理员本人的工时，保存后重定向回当前月份。
func (a *API) SaveEmployerReport(c *gin.Context) {
	a.saveSelfTimesheet(c, "/employer-report")
}
