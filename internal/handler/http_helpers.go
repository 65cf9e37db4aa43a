package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccessKey = "flash_success"
	flashErrorsKey  = "flash_errors"
	// 错误信息在会话里按行拼接存储，cookie store 只需要处理字符串
	flashSeparator = "\n"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// monthYearFromQuery 从查询参数解析年月，缺省回退到当天。
func monthYearFromQuery(c *gin.Context, today time.Time) (int, time.Month) {
	year := today.Year()
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			year = parsed
		}
	}

	month := today.Month()
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= 12 {
			month = time.Month(parsed)
		}
	}

	return year, month
}

// flashSuccess 在会话中记录一条成功提示。
func flashSuccess(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.Set(flashSuccessKey, message)
	_ = session.Save()
}

// flashErrors 在会话中追加一批错误提示。
func flashErrors(c *gin.Context, messages []string) {
	if len(messages) == 0 {
		return
	}

	session := sessions.Default(c)
	existing, _ := session.Get(flashErrorsKey).(string)

	joined := strings.Join(messages, flashSeparator)
	if existing != "" {
		joined = existing + flashSeparator + joined
	}
	session.Set(flashErrorsKey, joined)
	_ = session.Save()
}

// popFlashes 取出并清空会话中的提示信息。
func popFlashes(c *gin.Context) (string, []string) {
	session := sessions.Default(c)

	success, _ := session.Get(flashSuccessKey).(string)
	rawErrors, _ := session.Get(flashErrorsKey).(string)

	if success != "" || rawErrors != "" {
		session.Delete(flashSuccessKey)
		session.Delete(flashErrorsKey)
		_ = session.Save()
	}

	var errorsList []string
	if rawErrors != "" {
		errorsList = strings.Split(rawErrors, flashSeparator)
	}

	return success, errorsList
}
