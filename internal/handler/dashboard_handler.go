package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veNNNx/time-reporting-tool/internal/db"
	"github.com/veNNNx/time-reporting-tool/internal/locale"
	"github.com/veNNNx/time-reporting-tool/internal/service"
)

const savedMessage = "Dane zapisano pomyślnie."

// Dashboard 按角色分流：管理员看全员工时表，员工看自己的月视图。
func (a *API) Dashboard(c *gin.Context) {
	if user := currentUser(c); user != nil && user.IsAdmin {
		a.adminDashboard(c)
		return
	}
	a.userDashboard(c)
}

// SaveDashboard 处理工时表的保存提交，保存后重定向回当前月份。
func (a *API) SaveDashboard(c *gin.Context) {
	if user := currentUser(c); user != nil && user.IsAdmin {
		a.saveAdminDashboard(c)
		return
	}
	a.saveUserDashboard(c)
}

func (a *API) userDashboard(c *gin.Context) {
	a.selfTimesheet(c, "user_dashboard.html", "Moje godziny")
}

func (a *API) saveUserDashboard(c *gin.Context) {
	a.saveSelfTimesheet(c, "/")
}

// selfTimesheet 渲染当前登录用户自己的月度工时表，
// 员工首页与管理员的个人工时页共用这一套渲染逻辑。
func (a *API) selfTimesheet(c *gin.Context, tmpl, title string) {
	user := currentUser(c)
	today := time.Now()
	year, month := monthYearFromQuery(c, today)

	days := locale.DaysOfMonth(year, month)

	entries, err := a.timesheets.MonthEntries(user.ID, year, month)
	if err != nil {
		c.Error(err)
		entries = map[int]db.WorkHour{}
	}

	tags, err := a.tags.ForMonth(year, month)
	if err != nil {
		c.Error(err)
	}

	success, problems := popFlashes(c)
	c.HTML(http.StatusOK, tmpl, a.dashboardData(c, gin.H{
		"title":      title,
		"user":       user,
		"days":       days,
		"entries":    entries,
		"totalHours": service.TotalHours(entries),
		"tags":       tags,
		"success":    success,
		"problems":   problems,
	}, year, month, today))
}

func (a *API) saveSelfTimesheet(c *gin.Context, basePath string) {
	user := currentUser(c)
	year, month := monthYearFromQuery(c, time.Now())

	days := locale.DaysOfMonth(year, month)
	entries := dayEntriesFromForm(c, days, selfDayKey)

	problems := a.timesheets.SaveMonth(*user, year, month, entries)
	if len(problems) == 0 {
		flashSuccess(c, savedMessage)
	} else {
		flashErrors(c, problems)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s?month=%d&year=%d", basePath, int(month), year))
}

// adminDashboard 渲染管理员的全员月度工时表
func (a *API) adminDashboard(c *gin.Context) {
	today := time.Now()
	year, month := monthYearFromQuery(c, today)

	days := locale.DaysOfMonth(year, month)

	workers, err := a.roster.WorkersForMonth(year, month)
	if err != nil {
		c.Error(err)
	}

	ids := make([]uint, 0, len(workers))
	for _, worker := range workers {
		ids = append(ids, worker.ID)
	}

	entries, err := a.timesheets.MonthEntriesForUsers(ids, year, month)
	if err != nil {
		c.Error(err)
		entries = map[uint]map[int]db.WorkHour{}
	}

	totals := make(map[uint]float64, len(workers))
	for _, worker := range workers {
		totals[worker.ID] = service.TotalHours(entries[worker.ID])
	}

	tags, err := a.tags.ForMonth(year, month)
	if err != nil {
		c.Error(err)
	}

	success, problems := popFlashes(c)
	c.HTML(http.StatusOK, "admin_dashboard.html", a.dashboardData(c, gin.H{
		"title":    "Ewidencja godzin",
		"user":     currentUser(c),
		"days":     days,
		"workers":  workers,
		"entries":  entries,
		"totals":   totals,
		"tags":     tags,
		"success":  success,
		"problems": problems,
	}, year, month, today))
}

func (a *API) saveAdminDashboard(c *gin.Context) {
	year, month := monthYearFromQuery(c, time.Now())

	days := locale.DaysOfMonth(year, month)

	workers, err := a.roster.WorkersForMonth(year, month)
	if err != nil {
		c.Error(err)
		flashErrors(c, []string{"Nie udało się pobrać listy pracowników."})
		c.Redirect(http.StatusFound, fmt.Sprintf("/?month=%d&year=%d", int(month), year))
		return
	}

	entries := make(map[uint]map[int]service.DayEntryInput, len(workers))
	for _, worker := range workers {
		entries[worker.ID] = dayEntriesFromForm(c, days, adminDayKey(worker.ID))
	}

	problems := a.timesheets.SaveMonthForUsers(workers, year, month, entries)
	if len(problems) == 0 {
		flashSuccess(c, savedMessage)
	} else {
		flashErrors(c, problems)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/?month=%d&year=%d", int(month), year))
}

// dashboardData 组装月视图模板公用的数据项。
func (a *API) dashboardData(c *gin.Context, data gin.H, year int, month time.Month, today time.Time) gin.H {
	todayDay := 0
	if year == today.Year() && month == today.Month() {
		todayDay = today.Day()
	}

	settings := a.siteSettings(c)
	announcement, err := service.RenderAnnouncement(settings.Announcement)
	if err != nil {
		c.Error(err)
	}

	data["site"] = settings
	data["announcement"] = template.HTML(announcement)
	data["year"] = year
	data["month"] = int(month)
	data["monthName"] = locale.MonthName(month)
	data["todayDay"] = todayDay
	data["monthsList"] = locale.Months()
	data["yearsList"] = locale.Years(today)
	data["hoursList"] = locale.Hours()
	data["minutesList"] = locale.Minutes()
	return data
}

// selfDayKey 自助表单的字段键：start_hour_<day> 等。
func selfDayKey(field string, day int) string {
	return fmt.Sprintf("%s_%d", field, day)
}

// adminDayKey 管理表单的字段键：user_<uid>_day_<day>_<field>。
func adminDayKey(userID uint) func(field string, day int) string {
	return func(field string, day int) string {
		return fmt.Sprintf("user_%d_day_%d_%s", userID, day, field)
	}
}

// dayEntriesFromForm 按键名方案抽取整月的原始输入，键名只在这一层出现。
func dayEntriesFromForm(c *gin.Context, days []locale.Day, key func(field string, day int) string) map[int]service.DayEntryInput {
	entries := make(map[int]service.DayEntryInput, len(days))
	for _, day := range days {
		entries[day.Number] = service.DayEntryInput{
			StartHour:   c.PostForm(key("start_hour", day.Number)),
			StartMinute: c.PostForm(key("start_minute", day.Number)),
			EndHour:     c.PostForm(key("end_hour", day.Number)),
			EndMinute:   c.PostForm(key("end_minute", day.Number)),
			TagID:       c.PostForm(key("tag", day.Number)),
		}
	}
	return entries
}
