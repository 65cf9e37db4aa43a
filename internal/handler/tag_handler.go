package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veNNNx/time-reporting-tool/internal/db"
	"github.com/veNNNx/time-reporting-tool/internal/service"
)

type tagRequest struct {
	Name     string `json:"name" binding:"required"`
	Month    *int   `json:"month"`
	Year     *int   `json:"year"`
	IsStatic bool   `json:"is_static"`
}

func tagToPayload(tag db.WorkTag) gin.H {
	return gin.H{
		"id":        tag.ID,
		"name":      tag.Name,
		"month":     tag.Month,
		"year":      tag.Year,
		"is_static": tag.IsStatic,
	}
}

// GetTags 获取标签列表
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Nie udało się pobrać listy robót")
		return
	}

	response := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		response = append(response, tagToPayload(tag))
	}

	c.JSON(http.StatusOK, gin.H{"tags": response})
}

// CreateTag 创建新标签
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "Nazwa roboty jest wymagana") {
		return
	}

	tag, err := a.tags.Create(service.TagInput{
		Name:     req.Name,
		Month:    req.Month,
		Year:     req.Year,
		IsStatic: req.IsStatic,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusBadRequest, "Robota o tej nazwie już istnieje")
		default:
			respondError(c, http.StatusInternalServerError, "Nie udało się utworzyć roboty")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tagToPayload(*tag)})
}

// UpdateTag 更新标签
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Nieprawidłowy identyfikator roboty")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "Nazwa roboty jest wymagana") {
		return
	}

	tag, err := a.tags.Update(id, service.TagInput{
		Name:     req.Name,
		Month:    req.Month,
		Year:     req.Year,
		IsStatic: req.IsStatic,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusBadRequest, "Robota o tej nazwie już istnieje")
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "Robota nie istnieje")
		default:
			respondError(c, http.StatusInternalServerError, "Nie udało się zaktualizować roboty")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tagToPayload(*tag)})
}

// DeleteTag 删除标签，被工时引用的标签拒绝删除
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Nieprawidłowy identyfikator roboty")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "Robota nie istnieje")
		case errors.Is(err, service.ErrTagInUse):
			respondError(c, http.StatusBadRequest, "Robota ma przypisane godziny i nie może zostać usunięta")
		default:
			respondError(c, http.StatusInternalServerError, "Nie udało się usunąć roboty")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
