package config

import (
	log2 "log"
	"sync"

	"github.com/meta-betties/gatekeeper/common"
	"github.com/meta-betties/gatekeeper/pkg/log"
	"github.com/stevenroose/gonfig"
)

type Params struct {
	Address         string `id:"address" short:"a" default:"0.0.0.0:5000" desc:"Listening address of the callback webserver"`
	BotToken        string `id:"bot-token" desc:"Telegram bot API token"`
	GroupID         int64  `id:"group-id" desc:"Identifier of the gated Telegram group"`
	VerifyHost      string `id:"verify-host" default:"dancing-lollipop-fc680a.netlify.app" desc:"Host serving the NFT verification page"`
	VerifyTimeout   int64  `id:"verify-timeout" default:"300" desc:"Seconds a new member has to verify before removal"`
	AnalyticsFile   string `id:"analytics-file" default:"analytics.json" desc:"Path of the append-only verification log"`
	CallbackToken   string `id:"callback-token" desc:"Optional shared secret the verifier must present in X-Callback-Token"`
	LogLevel        string `id:"log-level" default:"info" desc:"Optional values: trace, debug, info, warn or error"`
	LogFile         string `id:"log-file" desc:"The path of log file"`
	LogMaxDays      int64  `id:"log-max-days" default:"3" desc:"Maximum number of days to keep log files"`
	LogDisableColor bool   `id:"log-disable-color"`
}

var params Params

func initFunc() {
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "GATE_",
	})
	if err != nil {
		if err.Error() != "unexpected word while parsing flags: '-test.v'" {
			log2.Fatal(err)
		}
	}
	params.LogFile, err = common.HomeExpand(params.LogFile)
	if err != nil {
		log2.Fatal(err)
	}
	params.AnalyticsFile, err = common.HomeExpand(params.AnalyticsFile)
	if err != nil {
		log2.Fatal(err)
	}
	logWay := "console"
	if params.LogFile != "" {
		logWay = "file"
	}
	log.InitLog(logWay, params.LogFile, params.LogLevel, params.LogMaxDays, params.LogDisableColor)
}

var once sync.Once

func GetConfig() *Params {
	once.Do(initFunc)
	return &params
}
