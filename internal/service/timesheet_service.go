package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrEndBeforeStart 表示结束时刻早于开始时刻（同日比较，保存阶段不允许跨夜）
	ErrEndBeforeStart = errors.New("end time before start time")
	// ErrMalformedTime 表示时间字段存在但无法解析
	ErrMalformedTime = errors.New("malformed time component")
)

// 员工只能回填最近几天的工时，更早的日期由管理员代为修改
const editWindowDays = 3

// DayEntryInput 描述某一天表单提交的原始字段，全部为可空字符串。
// 表单键名的拆解在 handler 边界完成，service 只面对结构化输入
type DayEntryInput struct {
	StartHour   string
	StartMinute string
	EndHour     string
	EndMinute   string
	TagID       string
}

// IsEmpty 判断该天是否完全未填写。
func (in DayEntryInput) IsEmpty() bool {
	return strings.TrimSpace(in.StartHour) == "" &&
		strings.TrimSpace(in.StartMinute) == "" &&
		strings.TrimSpace(in.EndHour) == "" &&
		strings.TrimSpace(in.EndMinute) == "" &&
		strings.TrimSpace(in.TagID) == ""
}

func (in DayEntryInput) hasAllTimes() bool {
	return strings.TrimSpace(in.StartHour) != "" &&
		strings.TrimSpace(in.StartMinute) != "" &&
		strings.TrimSpace(in.EndHour) != "" &&
		strings.TrimSpace(in.EndMinute) != ""
}

// TimesheetService 负责工时记录的保存决策与批量处理
type TimesheetService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTimesheetService 构造 TimesheetService。
func NewTimesheetService(gdb *gorm.DB) *TimesheetService {
	return &TimesheetService{db: gdb, now: time.Now}
}

// IsEditable 编辑窗口策略：管理员不受限制，普通员工只能修改
// 距今不超过 editWindowDays 个日历天的日期（未来日期视为可编辑）。
// 按日历天而非时长比较，夏令时切换当天不满 24 小时也不影响窗口
func IsEditable(date, today time.Time, isAdmin bool) bool {
	if isAdmin {
		return true
	}

	d := normalizeToDate(date)
	t := normalizeToDate(today)
	return !d.AddDate(0, 0, editWindowDays).Before(t)
}

// ApplyDayEntry 处理单日的保存决策：
//  1. 标签 id 能解析则使用，否则静默视为无标签；
//  2. 四个时间字段不齐时，仅在有标签的情况下写入一条无时间的占位记录；
//  3. 四个字段齐全则解析并校验先后顺序，然后按 (user, date) 唯一键执行 upsert。
//
// 返回值表示是否发生了写入；校验失败返回哨兵错误，记录保持原样。
func (s *TimesheetService) ApplyDayEntry(userID uint, date time.Time, input DayEntryInput) (bool, error) {
	entryDate := normalizeToDate(date)
	tagID := s.resolveTag(input.TagID)

	if !input.hasAllTimes() {
		if tagID == nil {
			return false, nil
		}
		return true, s.upsertTagOnly(userID, entryDate, tagID)
	}

	start, err := db.ParseClock(input.StartHour, input.StartMinute)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedTime, err)
	}
	end, err := db.ParseClock(input.EndHour, input.EndMinute)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedTime, err)
	}

	// 保存阶段只做同日比较，跨夜只在时长计算中处理
	if end.Minutes() < start.Minutes() {
		return false, ErrEndBeforeStart
	}

	record := db.WorkHour{
		UserID:    userID,
		Date:      entryDate,
		StartTime: &start,
		EndTime:   &end,
		TagID:     tagID,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "tag_id", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return false, fmt.Errorf("upsert work hour: %w", err)
	}

	return true, nil
}

// SaveMonth 自助模式：遍历该月所有天，应用编辑窗口与单日决策，
// 逐日累积波兰语错误信息，单日失败不影响其余天。
func (s *TimesheetService) SaveMonth(user db.User, year int, month time.Month, entries map[int]DayEntryInput) []string {
	var problems []string
	today := s.now()

	for _, day := range daysIn(year, month) {
		input := entries[day]
		if input.IsEmpty() {
			continue
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		if !IsEditable(date, today, user.IsAdmin) {
			problems = append(problems, fmt.Sprintf("Dnia %d nie można edytować (minęły więcej niż %d dni).", day, editWindowDays))
			continue
		}

		if _, err := s.ApplyDayEntry(user.ID, date, input); err != nil {
			problems = append(problems, dayProblem(day, err))
		}
	}

	return problems
}

// SaveMonthForUsers 管理模式：对所有员工 × 所有天做批量保存，
// 不应用编辑窗口，错误信息中额外标明员工。
func (s *TimesheetService) SaveMonthForUsers(users []db.User, year int, month time.Month, entries map[uint]map[int]DayEntryInput) []string {
	var problems []string

	for _, user := range users {
		userEntries := entries[user.ID]
		for _, day := range daysIn(year, month) {
			input := userEntries[day]
			if input.IsEmpty() {
				continue
			}

			date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
			if _, err := s.ApplyDayEntry(user.ID, date, input); err != nil {
				problems = append(problems, fmt.Sprintf("Użytkownik %s: %s", user.Username, dayProblem(day, err)))
			}
		}
	}

	return problems
}

// MonthEntries 返回某员工在指定月份的全部记录，按日序号索引。
func (s *TimesheetService) MonthEntries(userID uint, year int, month time.Month) (map[int]db.WorkHour, error) {
	start, end := monthRange(year, month)

	var records []db.WorkHour
	if err := s.db.Preload("Tag").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list work hours: %w", err)
	}

	byDay := make(map[int]db.WorkHour, len(records))
	for _, record := range records {
		byDay[record.Date.Day()] = record
	}
	return byDay, nil
}

// MonthEntriesForUsers 返回一批员工在指定月份的记录，按员工 id 与日序号索引。
func (s *TimesheetService) MonthEntriesForUsers(userIDs []uint, year int, month time.Month) (map[uint]map[int]db.WorkHour, error) {
	start, end := monthRange(year, month)

	var records []db.WorkHour
	if err := s.db.Preload("Tag").
		Where("user_id IN ? AND date >= ? AND date < ?", userIDs, start, end).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list work hours: %w", err)
	}

	byUser := make(map[uint]map[int]db.WorkHour, len(userIDs))
	for _, id := range userIDs {
		byUser[id] = make(map[int]db.WorkHour)
	}
	for _, record := range records {
		if _, ok := byUser[record.UserID]; !ok {
			byUser[record.UserID] = make(map[int]db.WorkHour)
		}
		byUser[record.UserID][record.Date.Day()] = record
	}
	return byUser, nil
}

// TotalHours 汇总一组记录的小时数。
func TotalHours(entries map[int]db.WorkHour) float64 {
	total := 0.0
	for _, entry := range entries {
		total += entry.TotalHours()
	}
	return total
}

func (s *TimesheetService) upsertTagOnly(userID uint, date time.Time, tagID *uint) error {
	var existing db.WorkHour
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Update("tag_id", tagID).Error; err != nil {
			return fmt.Errorf("update work hour tag: %w", err)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find work hour: %w", err)
	}

	record := db.WorkHour{UserID: userID, Date: date, TagID: tagID}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("create work hour: %w", err)
	}
	return nil
}

// resolveTag 将表单中的标签 id 解析为存在的标签；
// 空值或查不到的 id 一律静默当作无标签，这是有意的宽松策略
func (s *TimesheetService) resolveTag(raw string) *uint {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parsed, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return nil
	}

	var tag db.WorkTag
	if err := s.db.First(&tag, uint(parsed)).Error; err != nil {
		return nil
	}

	id := tag.ID
	return &id
}

func dayProblem(day int, err error) string {
	switch {
	case errors.Is(err, ErrEndBeforeStart):
		return fmt.Sprintf("Dzień %d: czas zakończenia nie może być wcześniejszy niż czas rozpoczęcia.", day)
	case errors.Is(err, ErrMalformedTime):
		return fmt.Sprintf("Dzień %d: nieprawidłowy format czasu.", day)
	default:
		return fmt.Sprintf("Dzień %d: nie udało się zapisać wpisu.", day)
	}
}

func daysIn(year int, month time.Month) []int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	count := first.AddDate(0, 1, -1).Day()

	days := make([]int, 0, count)
	for d := 1; d <= count; d++ {
		days = append(days, d)
	}
	return days
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
