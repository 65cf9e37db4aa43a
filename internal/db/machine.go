package db

import (
	"time"

	"gorm.io/gorm"
)

// Machine 定义了设备模型
type Machine struct {
	gorm.Model
	Name string `gorm:"not null"`
}

// MachineWorkLog 记录设备某一天的一段使用区间
// 同一设备同一天允许多条记录（例如两班倒），不设唯一约束；
// 按日期保存时采用先删后插的整体替换策略
type MachineWorkLog struct {
	gorm.Model
	MachineID uint      `gorm:"index"`
	Machine   Machine   `gorm:"constraint:OnDelete:CASCADE"`
	Date      time.Time `gorm:"index"`
	StartTime *Clock
	EndTime   *Clock
}

// TableName 自定义表名以保持命名一致。
func (MachineWorkLog) TableName() string {
	return "machine_work_logs"
}

// TotalHours 返回该区间的使用小时数，结束早于开始视为跨夜。
func (m MachineWorkLog) TotalHours() float64 {
	return hoursBetween(m.Date, m.StartTime, m.EndTime)
}
