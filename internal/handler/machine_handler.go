package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veNNNx/time-reporting-tool/internal/db"
	"github.com/veNNNx/time-reporting-tool/internal/locale"
	"github.com/veNNNx/time-reporting-tool/internal/service"
)

// ShowMachinesReport 渲染设备日志的月视图
func (a *API) ShowMachinesReport(c *gin.Context) {
	today := time.Now()
	year, month := monthYearFromQuery(c, today)

	days := locale.DaysOfMonth(year, month)

	machines, err := a.machines.List()
	if err != nil {
		c.Error(err)
	}

	logs, err := a.machines.MonthLogs(year, month)
	if err != nil {
		c.Error(err)
		logs = map[int][]db.MachineWorkLog{}
	}

	success, problems := popFlashes(c)
	c.HTML(http.StatusOK, "machines_report.html", a.dashboardData(c, gin.H{
		"title":    "Maszyny",
		"user":     currentUser(c),
		"days":     days,
		"machines": machines,
		"logs":     logs,
		"success":  success,
		"problems": problems,
	}, year, month, today))
}

// SaveMachinesReport 保存设备日志：仅处理表单中带 count 的日期，
// 每个这样的日期按整体替换策略落库。
func (a *API) SaveMachinesReport(c *gin.Context) {
	year, month := monthYearFromQuery(c, time.Now())

	var problems []string
	for _, day := range locale.DaysOfMonth(year, month) {
		rawCount := strings.TrimSpace(c.PostForm(fmt.Sprintf("day_%d_count", day.Number)))
		if rawCount == "" {
			continue
		}

		count, err := strconv.Atoi(rawCount)
		if err != nil || count < 0 {
			problems = append(problems, fmt.Sprintf("Dzień %d: nieprawidłowa liczba wpisów.", day.Number))
			continue
		}

		inputs := make([]service.MachineLogInput, 0, count)
		for i := 0; i < count; i++ {
			machineID, err := strconv.ParseUint(strings.TrimSpace(c.PostForm(fmt.Sprintf("day_%d_machine_%d", day.Number, i))), 10, 32)
			if err != nil {
				problems = append(problems, fmt.Sprintf("Dzień %d: nie wybrano maszyny.", day.Number))
				continue
			}

			inputs = append(inputs, service.MachineLogInput{
				MachineID:   uint(machineID),
				StartHour:   c.PostForm(fmt.Sprintf("day_%d_start_hour_%d", day.Number, i)),
				StartMinute: c.PostForm(fmt.Sprintf("day_%d_start_minute_%d", day.Number, i)),
				EndHour:     c.PostForm(fmt.Sprintf("day_%d_end_hour_%d", day.Number, i)),
				EndMinute:   c.PostForm(fmt.Sprintf("day_%d_end_minute_%d", day.Number, i)),
			})
		}

		date := time.Date(year, month, day.Number, 0, 0, 0, 0, time.Local)
		problems = append(problems, a.machines.SaveDayLogs(date, inputs)...)
	}

	if len(problems) == 0 {
		flashSuccess(c, savedMessage)
	} else {
		flashErrors(c, problems)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/machines-report?month=%d&year=%d", int(month), year))
}

type machinePayload struct {
	Name string `json:"name"`
}

// ListMachines 返回设备列表 JSON
func (a *API) ListMachines(c *gin.Context) {
	machines, err := a.machines.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się pobrać listy maszyn")
		return
	}

	items := make([]gin.H, 0, len(machines))
	for _, machine := range machines {
		items = append(items, gin.H{"id": machine.ID, "name": machine.Name})
	}
	c.JSON(http.StatusOK, gin.H{"machines": items})
}

// CreateMachine 新建设备
func (a *API) CreateMachine(c *gin.Context) {
	var payload machinePayload
	if !bindJSON(c, &payload, "Nieprawidłowe dane maszyny") {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		respondError(c, http.StatusBadRequest, "Nazwa maszyny jest wymagana")
		return
	}

	machine, err := a.machines.Create(name)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się utworzyć maszyny")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": machine.ID, "name": machine.Name})
}

// DeleteMachine 删除设备及其日志
func (a *API) DeleteMachine(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Nieprawidłowy identyfikator maszyny")
		return
	}

	if _, err := a.machines.Get(id); err != nil {
		if errors.Is(err, service.ErrMachineNotFound) {
			respondError(c, http.StatusNotFound, "Maszyna nie istnieje")
			return
		}
		respondError(c, http.StatusInternalServerError, "Nie udało się usunąć maszyny")
		return
	}

	if err := a.machines.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się usunąć maszyny")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
