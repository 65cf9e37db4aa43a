package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
	"gorm.io/gorm"
)

// ErrMachineNotFound 在指定设备不存在时返回
var ErrMachineNotFound = errors.New("machine not found")

// MachineLogInput 描述设备日志表单中的一段使用区间。
type MachineLogInput struct {
	MachineID   uint
	StartHour   string
	StartMinute string
	EndHour     string
	EndMinute   string
}

// MachineService 负责设备与设备使用日志
// 同一天的日志按整体替换策略保存：先删掉当天全部记录再插入提交集
type MachineService struct {
	db *gorm.DB
}

// NewMachineService 构造 MachineService。
func NewMachineService(gdb *gorm.DB) *MachineService {
	return &MachineService{db: gdb}
}

// List 返回全部设备，按名称升序。
func (s *MachineService) List() ([]db.Machine, error) {
	var machines []db.Machine
	if err := s.db.Order("name ASC").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	return machines, nil
}

// Get 根据 ID 获取设备。
func (s *MachineService) Get(id uint) (*db.Machine, error) {
	var machine db.Machine
	if err := s.db.First(&machine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, fmt.Errorf("get machine: %w", err)
	}
	return &machine, nil
}

// Create 新建设备。
func (s *MachineService) Create(name string) (*db.Machine, error) {
	machine := db.Machine{Name: name}
	if err := s.db.Create(&machine).Error; err != nil {
		return nil, fmt.Errorf("create machine: %w", err)
	}
	return &machine, nil
}

// Delete 删除设备及其日志。
func (s *MachineService) Delete(id uint) error {
	if err := s.db.Where("machine_id = ?", id).Delete(&db.MachineWorkLog{}).Error; err != nil {
		return fmt.Errorf("delete machine logs: %w", err)
	}
	if err := s.db.Delete(&db.Machine{}, id).Error; err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}
	return nil
}

// SaveDayLogs 整体替换某一天的设备日志：删除当天已有记录后插入提交集，
// 单条校验失败只影响该条并产生一条错误信息，其余照常插入。
// 全部条目都未通过校验时保留当天原有记录；空提交（无条目）仍视为清空当天。
// 删除与插入在同一事务中完成，避免读到中间的空窗状态。
func (s *MachineService) SaveDayLogs(date time.Time, inputs []MachineLogInput) []string {
	logDate := normalizeToDate(date)
	var problems []string

	records := make([]db.MachineWorkLog, 0, len(inputs))
	for _, input := range inputs {
		var machine db.Machine
		if err := s.db.First(&machine, input.MachineID).Error; err != nil {
			problems = append(problems, fmt.Sprintf("Dzień %d: wybrana maszyna nie istnieje.", logDate.Day()))
			continue
		}

		start, err := db.ParseClock(input.StartHour, input.StartMinute)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Dzień %d, maszyna %s: nieprawidłowy format czasu.", logDate.Day(), machine.Name))
			continue
		}
		end, err := db.ParseClock(input.EndHour, input.EndMinute)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Dzień %d, maszyna %s: nieprawidłowy format czasu.", logDate.Day(), machine.Name))
			continue
		}

		if end.Minutes() < start.Minutes() {
			problems = append(problems, fmt.Sprintf("Dzień %d, maszyna %s: czas zakończenia nie może być wcześniej niż czas rozpoczęcia.", logDate.Day(), machine.Name))
			continue
		}

		records = append(records, db.MachineWorkLog{
			MachineID: input.MachineID,
			Date:      logDate,
			StartTime: &start,
			EndTime:   &end,
		})
	}

	if len(records) == 0 && len(problems) > 0 {
		return problems
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", logDate).Delete(&db.MachineWorkLog{}).Error; err != nil {
			return fmt.Errorf("clear machine logs: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert machine logs: %w", err)
		}
		return nil
	})
	if err != nil {
		problems = append(problems, fmt.Sprintf("Dzień %d: nie udało się zapisać dziennika maszyn.", logDate.Day()))
	}

	return problems
}

// MonthLogs 返回指定月份的设备日志，按日序号索引，日内按设备名排序。
func (s *MachineService) MonthLogs(year int, month time.Month) (map[int][]db.MachineWorkLog, error) {
	start, end := monthRange(year, month)

	var logs []db.MachineWorkLog
	if err := s.db.Preload("Machine").
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list machine logs: %w", err)
	}

	byDay := make(map[int][]db.MachineWorkLog)
	for _, entry := range logs {
		day := entry.Date.Day()
		byDay[day] = append(byDay[day], entry)
	}
	for day := range byDay {
		sort.Slice(byDay[day], func(i, j int) bool {
			return byDay[day][i].Machine.Name < byDay[day][j].Machine.Name
		})
	}
	return byDay, nil
}
