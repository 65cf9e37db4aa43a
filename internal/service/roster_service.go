package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/db"
	"gorm.io/gorm"
)

// ErrUserNotFound 在指定用户不存在时返回
var ErrUserNotFound = errors.New("user not found")

// RosterService 负责后台视图需要的员工名册
type RosterService struct {
	db *gorm.DB
}

// NewRosterService 构造 RosterService。
func NewRosterService(gdb *gorm.DB) *RosterService {
	return &RosterService{db: gdb}
}

// Get 根据 ID 获取用户。
func (s *RosterService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户。
func (s *RosterService) GetByUsername(username string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

// WorkersForMonth 返回后台工时表要展示的员工：非管理员，且仍在职
// 或在该月留有任何工时记录（离职员工的历史月份仍可回看），按用户名排序。
func (s *RosterService) WorkersForMonth(year int, month time.Month) ([]db.User, error) {
	start, end := monthRange(year, month)

	var users []db.User
	if err := s.db.
		Where("is_admin = ?", false).
		Where(
			s.db.Where("is_active = ?", true).
				Or("id IN (?)", s.db.Model(&db.WorkHour{}).
					Select("user_id").
					Where("date >= ? AND date < ?", start, end)),
		).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}

	return users, nil
}
