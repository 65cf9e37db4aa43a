package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
	"gorm.io/gorm"
)

// NameTotal 表示报表中的一行：名称加小时合计。
type NameTotal struct {
	Name  string
	Hours float64
}

// ReportService 负责月度汇总报表
// 标签维度只统计普通员工的工时，管理员自己的记录不计入
type ReportService struct {
	db *gorm.DB
}

// NewReportService 构造 ReportService。
func NewReportService(gdb *gorm.DB) *ReportService {
	return &ReportService{db: gdb}
}

// MonthlyTagTotals 按标签名汇总指定月份普通员工的工时。
// 零时长或无标签的记录不出现在结果中，结果按名称升序。
func (s *ReportService) MonthlyTagTotals(year int, month time.Month) ([]NameTotal, error) {
	start, end := monthRange(year, month)

	var records []db.WorkHour
	if err := s.db.Preload("Tag").
		Joins("JOIN users ON users.id = work_hours.user_id").
		Where("users.is_admin = ?", false).
		Where("work_hours.tag_id IS NOT NULL").
		Where("work_hours.date >= ? AND work_hours.date < ?", start, end).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tagged work hours: %w", err)
	}

	sums := make(map[string]float64)
	for _, record := range records {
		hours := record.TotalHours()
		if hours <= 0 || record.Tag == nil {
			continue
		}
		sums[record.Tag.Name] += hours
	}

	return sortedTotals(sums), nil
}

// MonthlyMachineTotals 按设备名汇总指定月份的使用小时。
func (s *ReportService) MonthlyMachineTotals(year int, month time.Month) ([]NameTotal, error) {
	start, end := monthRange(year, month)

	var logs []db.MachineWorkLog
	if err := s.db.Preload("Machine").
		Where("date >= ? AND date < ?", start, end).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list machine logs: %w", err)
	}

	sums := make(map[string]float64)
	for _, entry := range logs {
		hours := entry.TotalHours()
		if hours <= 0 {
			continue
		}
		sums[entry.Machine.Name] += hours
	}

	return sortedTotals(sums), nil
}

// MonthlyReport 一次性返回标签与设备两个维度的汇总。
func (s *ReportService) MonthlyReport(year int, month time.Month) ([]NameTotal, []NameTotal, error) {
	tags, err := s.MonthlyTagTotals(year, month)
	if err != nil {
		return nil, nil, err
	}

	machines, err := s.MonthlyMachineTotals(year, month)
	if err != nil {
		return nil, nil, err
	}

	return tags, machines, nil
}

func sortedTotals(sums map[string]float64) []NameTotal {
	totals := make([]NameTotal, 0, len(sums))
	for name, hours := range sums {
		totals = append(totals, NameTotal{Name: name, Hours: roundHours(hours)})
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Name < totals[j].Name
	})
	return totals
}

func roundHours(hours float64) float64 {
	// 单条记录已保留两位小数，这里再收敛一次避免浮点累加的尾差
	return math.Round(hours*100) / 100
}
