package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
)

func TestSaveMachinesReportCreatesLogs(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	createAccount(t, gdb, "admin", "secret", true)
	cookies := login(t, router, "admin", "secret")

	machine := db.Machine{Name: "Koparka"}
	if err := gdb.Create(&machine).Error; err != nil {
		t.Fatalf("failed to seed machine: %v", err)
	}

	form := url.Values{}
	form.Set("day_5_count", "2")
	form.Set("day_5_machine_0", fmt.Sprint(machine.ID))
	form.Set("day_5_start_hour_0", "8")
	form.Set("day_5_start_minute_0", "0")
	form.Set("day_5_end_hour_0", "12")
	form.Set("day_5_end_minute_0", "0")
	form.Set("day_5_machine_1", fmt.Sprint(machine.ID))
	form.Set("day_5_start_hour_1", "14")
	form.Set("day_5_start_minute_1", "0")
	form.Set("day_5_end_hour_1", "16")
	form.Set("day_5_end_minute_1", "30")

	target := "/machines-report?month=1&year=2025"
	recorder := doRequest(router, http.MethodPost, target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), cookies)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != target {
		t.Fatalf("expected redirect to %q, got %q", target, location)
	}

	date := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.Local)
	var logs []db.MachineWorkLog
	if err := gdb.Where("date = ?", date).Find(&logs).Error; err != nil {
		t.Fatalf("failed to load logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
}

func TestSaveMachinesReportIgnoresDaysWithoutCount(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	createAccount(t, gdb, "admin", "secret", true)
	cookies := login(t, router, "admin", "secret")

	machine := db.Machine{Name: "Koparka"}
	if err := gdb.Create(&machine).Error; err != nil {
		t.Fatalf("failed to seed machine: %v", err)
	}

	// 已有记录的日期不在表单里,整体替换不应波及它
	existing := db.MachineWorkLog{
		MachineID: machine.ID,
		Date:      time.Date(2025, time.January, 9, 0, 0, 0, 0, time.Local),
		StartTime: db.NewClock(8, 0),
		EndTime:   db.NewClock(10, 0),
	}
	if err := gdb.Create(&existing).Error; err != nil {
		t.Fatalf("failed to seed log: %v", err)
	}

	form := url.Values{}
	form.Set("day_5_count", "1")
	form.Set("day_5_machine_0", fmt.Sprint(machine.ID))
	form.Set("day_5_start_hour_0", "6")
	form.Set("day_5_start_minute_0", "0")
	form.Set("day_5_end_hour_0", "7")
	form.Set("day_5_end_minute_0", "0")

	recorder := doRequest(router, http.MethodPost, "/machines-report?month=1&year=2025", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), cookies)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}

	var count int64
	if err := gdb.Model(&db.MachineWorkLog{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected untouched day to survive, got %d logs", count)
	}
}

func TestMachineAPICrud(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	createAccount(t, gdb, "admin", "secret", true)
	cookies := login(t, router, "admin", "secret")

	body := bytes.NewBufferString(`{"name":"Koparka"}`)
	recorder := doRequest(router, http.MethodPost, "/api/machines", "application/json", body, cookies)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var created struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	recorder = doRequest(router, http.MethodGet, "/api/machines", "", nil, cookies)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var listed struct {
		Machines []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"machines"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(listed.Machines) != 1 || listed.Machines[0].Name != "Koparka" {
		t.Fatalf("unexpected machine list: %+v", listed.Machines)
	}

	recorder = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/machines/%d", created.ID), "", nil, cookies)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", recorder.Code)
	}

	recorder = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/machines/%d", created.ID), "", nil, cookies)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", recorder.Code)
	}
}

func TestCreateMachineRequiresName(t *testing.T) {
	gdb, router, cleanup := setupHandlerTest(t)
	defer cleanup()

	createAccount(t, gdb, "admin", "secret", true)
	cookies := login(t, router, "admin", "secret")

	recorder := doRequest(router, http.MethodPost, "/api/machines", "application/json", bytes.NewBufferString(`{"name":"  "}`), cookies)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}
