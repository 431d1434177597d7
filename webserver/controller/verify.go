package controller

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/meta-betties/gatekeeper/common"
	"github.com/meta-betties/gatekeeper/pkg/log"
	"github.com/meta-betties/gatekeeper/service"
)

const KeyRequestID = "RequestID"

type verifyCallbackBody struct {
	TgID     *int64 `json:"tg_id" binding:"required"`
	HasNFT   *bool  `json:"has_nft" binding:"required"`
	Username string `json:"username"`
}

// VerifyCallback receives verification results from the external verifier.
// Results may arrive repeated, late or for members long resolved; all of
// those are acknowledged as success because the verifier has no useful way
// to retry. Only a malformed body is an error, and it mutates nothing.
func VerifyCallback(coordinator *service.Coordinator, token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token != "" && ctx.GetHeader("X-Callback-Token") != token {
			common.ResponseUnauthorizedError(ctx)
			return
		}
		var body verifyCallbackBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			common.ResponseError(ctx, err)
			return
		}
		username := body.Username
		if username == "" {
			username = fmt.Sprintf("user_%d", *body.TgID)
		}
		log.Info("verify callback %v: tg_id=%v has_nft=%v",
			ctx.GetString(KeyRequestID), *body.TgID, *body.HasNFT)
		coordinator.OnVerificationResult(*body.TgID, *body.HasNFT, username)
		common.ResponseSuccess(ctx, "Verification result logged")
	}
}
