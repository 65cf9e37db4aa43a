package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
)

func TestEmployerReportSavesAdminOwnHours(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	admin := createAccount(t, gdb, "szef", "secret", true)
	cookies := login(t, router, "szef", "secret")

	today := time.Now()
	day := today.Day()

	form := url.Values{}
	form.Set(fmt.Sprintf("start_hour_%d", day), "7")
	form.Set(fmt.Sprintf("start_minute_%d", day), "0")
	form.Set(fmt.Sprintf("end_hour_%d", day), "15")
	form.Set(fmt.Sprintf("end_minute_%d", day), "30")

	target := fmt.Sprintf("/employer-report?month=%d&year=%d", int(today.Month()), today.Year())
	recorder := doRequest(router, http.MethodPost, target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), cookies)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != target {
		t.Fatalf("expected redirect back to %q, got %q", target, location)
	}

	var record db.WorkHour
	if err := gdb.Where("user_id = ?", admin.ID).First(&record).Error; err != nil {
		t.Fatalf("expected work hour for admin: %v", err)
	}
	if record.TotalHours() != 8.5 {
		t.Fatalf("expected 8.5 hours, got %v", record.TotalHours())
	}
	if record.Date.Day() != day {
		t.Fatalf("expected record on day %d, got %d", day, record.Date.Day())
	}
}

func TestEmployerReportBypassesEditWindow(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	admin := createAccount(t, gdb, "szef", "secret", true)
	cookies := login(t, router, "szef", "secret")

	// 上个月的日期早已超出普通员工的编辑窗口
	lastMonth := time.Now().AddDate(0, -1, 0)

	form := url.Values{}
	form.Set("start_hour_1", "8")
	form.Set("start_minute_1", "0")
	form.Set("end_hour_1", "16")
	form.Set("end_minute_1", "0")

	target := fmt.Sprintf("/employer-report?month=%d&year=%d", int(lastMonth.Month()), lastMonth.Year())
	recorder := doRequest(router, http.MethodPost, target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), cookies)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}

	var count int64
	if err := gdb.Model(&db.WorkHour{}).Where("user_id = ?", admin.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count work hours: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected admin to record past hours, got %d records", count)
	}
}

func TestEmployerReportRejectsWorkers(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	createAccount(t, gdb, "adam", "secret", false)
	cookies := login(t, router, "adam", "secret")

	recorder := doRequest(router, http.MethodGet, "/employer-report", "", nil, cookies)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect for non-admin, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
}
