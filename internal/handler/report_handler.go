package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veNNNx/time-reporting-tool/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ShowMonthlyReport 渲染月度汇总：按标签与按设备两张表
func (a *API) ShowMonthlyReport(c *gin.Context) {
	today := time.Now()
	year, month := monthYearFromQuery(c, today)

	tagTotals, machineTotals, err := a.reports.MonthlyReport(year, month)
	if err != nil {
		c.Error(err)
	}

	c.HTML(http.StatusOK, "monthly_report.html", a.dashboardData(c, gin.H{
		"title":         "Raport miesięczny",
		"user":          currentUser(c),
		"tagTotals":     tagTotals,
		"machineTotals": machineTotals,
	}, year, month, today))
}

// ExportMonthlyReport 导出月度汇总为 XLSX 下载。
func (a *API) ExportMonthlyReport(c *gin.Context) {
	year, month := monthYearFromQuery(c, time.Now())

	tagTotals, machineTotals, err := a.reports.MonthlyReport(year, month)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się przygotować raportu")
		return
	}

	var buf bytes.Buffer
	if err := service.WriteMonthlyReportXLSX(&buf, year, month, tagTotals, machineTotals); err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się przygotować raportu")
		return
	}

	filename := fmt.Sprintf("raport-%d-%02d.xlsx", year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
