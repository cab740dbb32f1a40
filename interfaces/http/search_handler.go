package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partysense/domain/dto"
	"partysense/domain/model"
	"partysense/infrastructure/logger"
	"partysense/usecase"
)

type ISearchHandler interface {
	Search(ctx *gin.Context)
	Autocomplete(ctx *gin.Context)
}

type SearchHandler struct {
	searchUsecase usecase.ISearchUsecase
}

func NewSearchHandler(searchUsecase usecase.ISearchUsecase) ISearchHandler {
	return &SearchHandler{searchUsecase: searchUsecase}
}

func (h *SearchHandler) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	result, err := h.searchUsecase.Search(ctx.Request.Context(), req.Q, req.MaxResults, req.PageToken)
	if err != nil {
		logger.GetLogger().WithField("q", req.Q).WithField("error", err.Error()).Warn("Search failed")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "search unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *SearchHandler) Autocomplete(ctx *gin.Context) {
	var req dto.AutocompleteRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	suggestions, err := h.searchUsecase.Autocomplete(ctx.Request.Context(), req.Q, req.MaxResults)
	if err != nil {
		logger.GetLogger().WithField("q", req.Q).WithField("error", err.Error()).Warn("Autocomplete failed")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "autocomplete unavailable"})
		return
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	ctx.JSON(http.StatusOK, suggestions)
}
