package router

import (
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/meta-betties/gatekeeper/config"
	"github.com/meta-betties/gatekeeper/service"
	"github.com/meta-betties/gatekeeper/webserver/controller"
)

// New assembles the callback webserver. callbackToken empty means the
// endpoint stays open, matching the verifier deployments that predate the
// shared secret.
func New(coordinator *service.Coordinator, callbackToken string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID())
	engine.GET("/health", controller.Health)
	engine.POST("/verify_callback", controller.VerifyCallback(coordinator, callbackToken))
	return engine
}

func Run(coordinator *service.Coordinator) error {
	cfg := config.GetConfig()
	return New(coordinator, cfg.CallbackToken).Run(cfg.Address)
}

// RequestID tags every request so callback outcomes can be correlated in the
// operational log.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if id, err := gonanoid.New(); err == nil {
			ctx.Set(controller.KeyRequestID, id)
			ctx.Header("X-Request-Id", id)
		}
		ctx.Next()
	}
}
