package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partysense/domain/dto"
	"partysense/infrastructure/logger"
	"partysense/usecase"
)

// EnsureChannelGrants renews expired channel grants before the request
// proceeds. A request must never reach a publish or subscribe with a grant it
// could not confirm valid, so issuance failure fails the whole request.
func EnsureChannelGrants(tokens usecase.ITokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Res{
				ResponseCode:    "401",
				ResponseMessage: "Unauthorized",
			})
			return
		}

		fresh, err := tokens.EnsureFresh(ctx.Request.Context(), user)
		if err != nil {
			logger.GetLogger().
				WithField("user_id", user.ID).
				WithField("error", err).
				Error("Channel grant renewal failed")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.Res{
				ResponseCode:    "500",
				ResponseMessage: "Channel access unavailable",
			})
			return
		}

		ctx.Set("user", fresh)
		ctx.Next()
	}
}
