package db

import "gorm.io/gorm"

// WorkTag 定义了工时分类标签
// Month/Year 为空表示全年有效（IsStatic），否则仅对指定月份可选
type WorkTag struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Month    *int
	Year     *int
	IsStatic bool `gorm:"default:false"`
}
