package locale

import (
	"time"
)

// 界面固定使用波兰语，这里集中维护日历相关的显示名称与可选项。

var monthNames = map[time.Month]string{
	time.January:   "Styczeń",
	time.February:  "Luty",
	time.March:     "Marzec",
	time.April:     "Kwiecień",
	time.May:       "Maj",
	time.June:      "Czerwiec",
	time.July:      "Lipiec",
	time.August:    "Sierpień",
	time.September: "Wrzesień",
	time.October:   "Październik",
	time.November:  "Listopad",
	time.December:  "Grudzień",
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Poniedziałek",
	time.Tuesday:   "Wtorek",
	time.Wednesday: "Środa",
	time.Thursday:  "Czwartek",
	time.Friday:    "Piątek",
	time.Saturday:  "Sobota",
	time.Sunday:    "Niedziela",
}

// Day 描述月视图中的一天：序号加星期名。
type Day struct {
	Number  int
	Weekday string
}

// Month 描述月份下拉选项。
type Month struct {
	Number int
	Name   string
}

// MonthName 返回月份的波兰语名称。
func MonthName(month time.Month) string {
	return monthNames[month]
}

// WeekdayName 返回星期的波兰语名称。
func WeekdayName(weekday time.Weekday) string {
	return weekdayNames[weekday]
}

// DaysOfMonth 枚举指定年月的所有日期及其星期名。
func DaysOfMonth(year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	count := first.AddDate(0, 1, -1).Day()

	days := make([]Day, 0, count)
	for d := 1; d <= count; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.Local)
		days = append(days, Day{Number: d, Weekday: weekdayNames[date.Weekday()]})
	}
	return days
}

// Months 返回 1 到 12 月的下拉选项。
func Months() []Month {
	months := make([]Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, Month{Number: int(m), Name: monthNames[m]})
	}
	return months
}

// Years 返回以当前年份为中心的可选年份区间。
func Years(today time.Time) []int {
	years := make([]int, 0, 5)
	for y := today.Year() - 2; y <= today.Year()+2; y++ {
		years = append(years, y)
	}
	return years
}

// Hours 返回表单可选的整点小时。
func Hours() []int {
	hours := make([]int, 0, 20)
	for h := 4; h <= 23; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Minutes 返回表单可选的分钟刻度。
func Minutes() []int {
	return []int{0, 15, 30, 45}
}
