package db

import (
	"time"

	"gorm.io/gorm"
)

// WorkHour 记录一名员工某一天的工时区间
// User + Date 采用唯一索引，保证同一天只有一条记录，重复保存走更新
// StartTime/EndTime 可同时为空（仅打标签的占位记录）
type WorkHour struct {
	gorm.Model
	UserID    uint      `gorm:"index;index:idx_work_hour_unique,unique"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Date      time.Time `gorm:"index:idx_work_hour_unique,unique"`
	StartTime *Clock
	EndTime   *Clock
	TagID     *uint
	Tag       *WorkTag `gorm:"constraint:OnDelete:SET NULL"`
}

// TableName 重写确保唯一索引作用到 user_id + date
func (WorkHour) TableName() string {
	return "work_hours"
}

// TotalHours 返回当天的工作小时数，结束早于开始视为跨夜班。
func (w WorkHour) TotalHours() float64 {
	return hoursBetween(w.Date, w.StartTime, w.EndTime)
}
