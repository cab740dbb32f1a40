package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"partysense/domain/model"
	"partysense/infrastructure/logger"
	"partysense/interfaces/middleware"
	"partysense/usecase"
)

type IPlaybackHandler interface {
	Dispatch(ctx *gin.Context)
	CurrentPlayback(ctx *gin.Context)
	History(ctx *gin.Context)
}

type PlaybackHandler struct {
	playbackUsecase usecase.IPlaybackUsecase
}

func NewPlaybackHandler(playbackUsecase usecase.IPlaybackUsecase) IPlaybackHandler {
	return &PlaybackHandler{playbackUsecase: playbackUsecase}
}

// Dispatch accepts a raw command payload, decodes it into its variant and
// hands it to the dispatcher.
func (h *PlaybackHandler) Dispatch(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	cmd, err := model.DecodeCommand(payload)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.playbackUsecase.Dispatch(ctx.Request.Context(), user, cmd); err != nil {
		var dispatchErr *model.DispatchError
		if errors.As(err, &dispatchErr) {
			logger.GetLogger().
				WithField("user_id", user.ID).
				WithField("action", cmd.Action()).
				WithField("error", err.Error()).
				Warn("Command delivery unconfirmed")
			ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "dispatched", "action": cmd.Action()})
}

func (h *PlaybackHandler) CurrentPlayback(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	state, err := h.playbackUsecase.GetCurrent(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if state == nil {
		ctx.JSON(http.StatusOK, gin.H{"current_song": nil})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"current_song": state})
}

func (h *PlaybackHandler) History(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	entries, err := h.playbackUsecase.History(ctx.Request.Context(), userID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []model.PlaybackHistoryEntry{}
	}
	ctx.JSON(http.StatusOK, gin.H{"history": entries})
}
