package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTimesheetTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.WorkTag{}, &db.WorkHour{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func createWorker(t *testing.T, username string) db.User {
	t.Helper()
	user := db.User{Username: username, Password: "x", IsActive: true}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func timeInput(sh, sm, eh, em string) DayEntryInput {
	return DayEntryInput{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
}

func fixedNow(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
	}
}

func TestApplyDayEntryCreatesRecord(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	day := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.Local)

	applied, err := svc.ApplyDayEntry(user.ID, day, timeInput("08", "00", "12", "00"))
	if err != nil {
		t.Fatalf("ApplyDayEntry returned error: %v", err)
	}
	if !applied {
		t.Fatal("expected entry to be applied")
	}

	var record db.WorkHour
	if err := db.DB.Where("user_id = ?", user.ID).First(&record).Error; err != nil {
		t.Fatalf("failed to load record: %v", err)
	}
	if got := record.TotalHours(); got != 4.0 {
		t.Fatalf("TotalHours() = %v, want 4.0", got)
	}
}

func TestApplyDayEntryUpsertsByUserAndDate(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	day := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local)

	if _, err := svc.ApplyDayEntry(user.ID, day, timeInput("07", "00", "10", "00")); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := svc.ApplyDayEntry(user.ID, day, timeInput("08", "00", "16", "00")); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	var count int64
	db.DB.Model(&db.WorkHour{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 record, got %d", count)
	}

	var record db.WorkHour
	db.DB.Where("user_id = ?", user.ID).First(&record)
	if got := record.TotalHours(); got != 8.0 {
		t.Fatalf("TotalHours() = %v, want 8.0", got)
	}
}

func TestApplyDayEntryRejectsEndBeforeStart(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	day := time.Date(2025, time.January, 7, 0, 0, 0, 0, time.Local)

	applied, err := svc.ApplyDayEntry(user.ID, day, timeInput("12", "00", "08", "00"))
	if err == nil {
		t.Fatal("expected error for end before start")
	}
	if applied {
		t.Fatal("entry must not be applied")
	}

	var count int64
	db.DB.Model(&db.WorkHour{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no record, got %d", count)
	}
}

func TestApplyDayEntryTagOnly(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	tag := db.WorkTag{Name: "Urlop", IsStatic: true}
	if err := db.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}

	day := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local)
	applied, err := svc.ApplyDayEntry(user.ID, day, DayEntryInput{TagID: fmt.Sprint(tag.ID)})
	if err != nil {
		t.Fatalf("ApplyDayEntry returned error: %v", err)
	}
	if !applied {
		t.Fatal("expected tag-only entry to be applied")
	}

	var record db.WorkHour
	if err := db.DB.Where("user_id = ?", user.ID).First(&record).Error; err != nil {
		t.Fatalf("failed to load record: %v", err)
	}
	if record.TagID == nil || *record.TagID != tag.ID {
		t.Fatalf("expected tag %d, got %v", tag.ID, record.TagID)
	}
	if record.TotalHours() != 0 {
		t.Fatalf("expected zero hours, got %v", record.TotalHours())
	}
}

func TestApplyDayEntryEmptyFieldsSkip(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	day := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local)

	applied, err := svc.ApplyDayEntry(user.ID, day, DayEntryInput{})
	if err != nil {
		t.Fatalf("ApplyDayEntry returned error: %v", err)
	}
	if applied {
		t.Fatal("expected empty entry to be skipped")
	}

	var count int64
	db.DB.Model(&db.WorkHour{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no record, got %d", count)
	}
}

func TestApplyDayEntryInvalidTagIgnored(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	day := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local)

	// 不存在的标签 id 静默当作无标签，不算错误
	applied, err := svc.ApplyDayEntry(user.ID, day, DayEntryInput{
		StartHour: "08", StartMinute: "00", EndHour: "10", EndMinute: "00", TagID: "999",
	})
	if err != nil {
		t.Fatalf("ApplyDayEntry returned error: %v", err)
	}
	if !applied {
		t.Fatal("expected entry to be applied")
	}

	var record db.WorkHour
	db.DB.Where("user_id = ?", user.ID).First(&record)
	if record.TagID != nil {
		t.Fatalf("expected no tag, got %v", *record.TagID)
	}
}

func TestApplyDayEntryOverwritesTag(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	user := createWorker(t, "jan")
	tag := db.WorkTag{Name: "Kopanie"}
	if err := db.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}

	day := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.Local)
	if _, err := svc.ApplyDayEntry(user.ID, day, DayEntryInput{
		StartHour: "08", StartMinute: "00", EndHour: "16", EndMinute: "00", TagID: fmt.Sprint(tag.ID),
	}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// 再次保存时不带标签，应当清掉原有标签
	if _, err := svc.ApplyDayEntry(user.ID, day, timeInput("08", "00", "16", "00")); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	var record db.WorkHour
	db.DB.Where("user_id = ?", user.ID).First(&record)
	if record.TagID != nil {
		t.Fatalf("expected tag cleared, got %v", *record.TagID)
	}
}

func TestIsEditable(t *testing.T) {
	today := time.Date(2025, time.June, 10, 9, 30, 0, 0, time.Local)

	cases := []struct {
		name    string
		date    time.Time
		isAdmin bool
		want    bool
	}{
		{name: "today", date: today, want: true},
		{name: "three days back", date: today.AddDate(0, 0, -3), want: true},
		{name: "four days back", date: today.AddDate(0, 0, -4), want: false},
		{name: "future date", date: today.AddDate(0, 0, 5), want: true},
		{name: "admin old date", date: today.AddDate(0, 0, -30), isAdmin: true, want: true},
	}

	for _, tc := range cases {
		if got := IsEditable(tc.date, today, tc.isAdmin); got != tc.want {
			t.Fatalf("%s: IsEditable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// 窗口边界跨越夏令时回拨（2025-10-26 华沙时区）时，三个日历天
// 前的日期在钟表时间上相差 73 小时，仍应允许编辑。
func TestIsEditableAcrossClockChange(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	today := time.Date(2025, time.October, 28, 10, 0, 0, 0, warsaw)

	if !IsEditable(time.Date(2025, time.October, 25, 0, 0, 0, 0, warsaw), today, false) {
		t.Fatal("three calendar days back should stay editable across the clock change")
	}
	if IsEditable(time.Date(2025, time.October, 24, 0, 0, 0, 0, warsaw), today, false) {
		t.Fatal("four calendar days back should be rejected")
	}
}

func TestSaveMonthCollectsProblems(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	svc.now = fixedNow(2025, time.January, 10)
	user := createWorker(t, "jan")

	entries := map[int]DayEntryInput{
		8:  timeInput("08", "00", "12", "00"),
		9:  timeInput("12", "00", "08", "00"), // 顺序颠倒
		10: timeInput("06", "30", "14", "00"),
	}

	problems := svc.SaveMonth(user, 2025, time.January, entries)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "nie może być wcześniejszy") {
		t.Fatalf("unexpected problem message: %s", problems[0])
	}

	var count int64
	db.DB.Model(&db.WorkHour{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 saved records, got %d", count)
	}
}

func TestSaveMonthEnforcesEditWindow(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	svc.now = fixedNow(2025, time.January, 20)
	user := createWorker(t, "jan")

	entries := map[int]DayEntryInput{
		10: timeInput("08", "00", "12", "00"), // 10 天前,超出窗口
		18: timeInput("08", "00", "12", "00"),
	}

	problems := svc.SaveMonth(user, 2025, time.January, entries)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "nie można edytować") {
		t.Fatalf("unexpected problem message: %s", problems[0])
	}

	var count int64
	db.DB.Model(&db.WorkHour{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the recent day saved, got %d", count)
	}
}

func TestSaveMonthAdminBypassesWindow(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	svc.now = fixedNow(2025, time.June, 20)
	admin := db.User{Username: "admin", Password: "x", IsAdmin: true, IsActive: true}
	if err := db.DB.Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	entries := map[int]DayEntryInput{
		1: timeInput("08", "00", "12", "00"),
	}

	problems := svc.SaveMonth(admin, 2025, time.June, entries)
	if len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestSaveMonthForUsers(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	jan := createWorker(t, "jan")
	ola := createWorker(t, "ola")

	entries := map[uint]map[int]DayEntryInput{
		jan.ID: {
			2: timeInput("07", "00", "15", "00"),
			3: timeInput("06", "30", "14", "00"),
		},
		ola.ID: {
			2: timeInput("12", "00", "08", "00"), // 顺序颠倒
		},
	}

	problems := svc.SaveMonthForUsers([]db.User{jan, ola}, 2025, time.January, entries)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "ola") {
		t.Fatalf("problem should mention the worker: %s", problems[0])
	}

	byDay, err := svc.MonthEntries(jan.ID, 2025, time.January)
	if err != nil {
		t.Fatalf("MonthEntries returned error: %v", err)
	}
	if len(byDay) != 2 {
		t.Fatalf("expected 2 entries for jan, got %d", len(byDay))
	}
	if got := byDay[2].TotalHours(); got != 8.0 {
		t.Fatalf("day 2 hours = %v, want 8.0", got)
	}
	if got := byDay[3].TotalHours(); got != 7.5 {
		t.Fatalf("day 3 hours = %v, want 7.5", got)
	}

	if got := TotalHours(byDay); got != 15.5 {
		t.Fatalf("TotalHours = %v, want 15.5", got)
	}
}

func TestSaveMonthMalformedTime(t *testing.T) {
	cleanup := setupTimesheetTestDB(t)
	defer cleanup()

	svc := NewTimesheetService(db.DB)
	svc.now = fixedNow(2025, time.January, 10)
	user := createWorker(t, "jan")

	entries := map[int]DayEntryInput{
		9: timeInput("8a", "00", "12", "00"),
	}

	problems := svc.SaveMonth(user, 2025, time.January, entries)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "nieprawidłowy format") {
		t.Fatalf("unexpected problem message: %s", problems[0])
	}
}
