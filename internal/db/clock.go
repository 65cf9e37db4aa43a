package db

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Clock 表示一天内的时刻（时:分），不携带日期信息。
// 数据库中以 "HH:MM" 文本存储，空值用指针表达
type Clock struct {
	Hour   int
	Minute int
}

// NewClock 构造指向 Clock 的指针，便于给可空字段赋值。
func NewClock(hour, minute int) *Clock {
	return &Clock{Hour: hour, Minute: minute}
}

// ParseClock 将小时与分钟字符串解析为 Clock，范围越界视为错误。
func ParseClock(hour, minute string) (Clock, error) {
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid hour %q", hour)
	}
	m, err := strconv.Atoi(strings.TrimSpace(minute))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid minute %q", minute)
	}

	if h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("hour out of range: %d", h)
	}
	if m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("minute out of range: %d", m)
	}

	return Clock{Hour: h, Minute: m}, nil
}

// Minutes 返回距当日零点的分钟数，用于同日先后比较。
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String 输出 "HH:MM" 格式。
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At 将时刻落在给定日期上，得到完整时间点。
func (c Clock) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Value 实现 driver.Valuer。
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan 实现 sql.Scanner，接受 "HH:MM" 文本。
func (c *Clock) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		c.Hour, c.Minute = v.Hour(), v.Minute()
		return nil
	default:
		return fmt.Errorf("unsupported clock value type %T", value)
	}

	parts := strings.SplitN(strings.TrimSpace(raw), ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("malformed clock value %q", raw)
	}

	parsed, err := ParseClock(parts[0], parts[1])
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// hoursBetween 计算某日 start 到 end 之间的小时数。
// 任意一端缺失返回 0；end 早于 start 时视为跨至次日（夜班），
// 结果保留两位小数。
func hoursBetween(date time.Time, start, end *Clock) float64 {
	if start == nil || end == nil {
		return 0
	}

	startAt := start.At(date)
	endAt := end.At(date)
	if endAt.Before(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}

	return roundHours(endAt.Sub(startAt).Hours())
}

func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
