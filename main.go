package main

import (
	"time"

	"github.com/meta-betties/gatekeeper/analytics"
	"github.com/meta-betties/gatekeeper/bot"
	_ "github.com/meta-betties/gatekeeper/bot/command_handler"
	"github.com/meta-betties/gatekeeper/config"
	"github.com/meta-betties/gatekeeper/pkg/log"
	"github.com/meta-betties/gatekeeper/service"
	"github.com/meta-betties/gatekeeper/webserver/router"
)

func main() {
	cfg := config.GetConfig()
	alog := analytics.New(cfg.AnalyticsFile)
	b, err := bot.New(cfg.BotToken, cfg.GroupID, nil)
	if err != nil {
		log.Fatal("Bot: %v", err)
	}
	b.Coordinator = service.NewCoordinator(b, alog, cfg.VerifyHost, time.Duration(cfg.VerifyTimeout)*time.Second)
	b.Analytics = alog
	go func() {
		log.Info("bot long polling started")
		b.Run()
	}()
	log.Info("callback webserver listening on %v", cfg.Address)
	if err := router.Run(b.Coordinator); err != nil {
		log.Fatal("webserver: %v", err)
	}
}
