package service

import (
	"errors"
	"strings"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists   = errors.New("tag already exists")
	ErrTagInUse    = errors.New("tag is associated with work hours")
	ErrTagNotFound = errors.New("tag not found")
)

// TagService wraps work tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagInput 定义创建/更新标签时可配置字段
// Month/Year 为空且 IsStatic 为真表示全年有效
type TagInput struct {
	Name     string
	Month    *int
	Year     *int
	IsStatic bool
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// ForMonth 返回指定月份可选的标签：常驻标签加上专属该月的标签。
func (s *TagService) ForMonth(year int, month time.Month) ([]db.WorkTag, error) {
	var tags []db.WorkTag
	if err := s.db.
		Where("is_static = ? OR (month = ? AND year = ?)", true, int(month), year).
		Order("is_static ASC").
		Order("name ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// List returns all tags, static ones first.
func (s *TagService) List() ([]db.WorkTag, error) {
	var tags []db.WorkTag
	if err := s.db.
		Order("is_static ASC").
		Order("year ASC").
		Order("month ASC").
		Order("name ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create inserts a new tag with unique name within its period.
func (s *TagService) Create(input TagInput) (*db.WorkTag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	var existing db.WorkTag
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag := db.WorkTag{
		Name:     name,
		Month:    input.Month,
		Year:     input.Year,
		IsStatic: input.IsStatic,
	}
	if tag.IsStatic {
		// 常驻标签不绑定具体月份
		tag.Month = nil
		tag.Year = nil
	}

	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}

	return &tag, nil
}

// Update changes tag fields while keeping the name unique.
func (s *TagService) Update(id uint, input TagInput) (*db.WorkTag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	var tag db.WorkTag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	var existing db.WorkTag
	if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag.Name = name
	tag.IsStatic = input.IsStatic
	tag.Month = input.Month
	tag.Year = input.Year
	if tag.IsStatic {
		tag.Month = nil
		tag.Year = nil
	}

	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}

	return &tag, nil
}

// Delete removes a tag if no work hour references it.
func (s *TagService) Delete(id uint) error {
	var tag db.WorkTag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	count, err := s.usageCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTagInUse
	}

	return s.db.Unscoped().Delete(&tag).Error
}

func (s *TagService) usageCount(id uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.WorkHour{}).
		Where("tag_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
