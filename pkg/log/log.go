package log

import (
	"fmt"
	"os"

	"github.com/v2rayA/beego/v2/logs"
)

var Log *logs.BeeLogger

func init() {
	Log = logs.NewLogger(200)
	Log.EnableFuncCallDepth(true)
	Log.SetLogFuncCallDepth(4)
	SetLogFile("console", "", 0, false)
}

// InitLog configures the process logger. logWay is "console" or "file".
func InitLog(logWay string, logFile string, logLevel string, maxDays int64, disableColor bool) {
	SetLogFile(logWay, logFile, maxDays, disableColor)
	SetLogLevel(logLevel)
}

func SetLogFile(logWay string, logFile string, maxDays int64, disableColor bool) {
	if logWay == "console" {
		params := fmt.Sprintf(`{"color": %v}`, !disableColor)
		_ = Log.SetLogger(logs.AdapterConsole, params)
	} else {
		params := fmt.Sprintf(`{"filename": "%s", "maxdays": %d}`, logFile, maxDays)
		_ = Log.SetLogger(logs.AdapterFile, params)
		_ = Log.DelLogger(logs.AdapterConsole)
	}
}

func SetLogLevel(logLevel string) {
	level := logs.LevelInformational
	switch logLevel {
	case "error":
		level = logs.LevelError
	case "warn":
		level = logs.LevelWarning
	case "info":
		level = logs.LevelInformational
	case "debug", "trace":
		level = logs.LevelDebug
	}
	Log.SetLevel(level)
}

func Error(format string, v ...interface{}) {
	Log.Error(format, v...)
}

func Warn(format string, v ...interface{}) {
	Log.Warn(format, v...)
}

func Info(format string, v ...interface{}) {
	Log.Info(format, v...)
}

func Debug(format string, v ...interface{}) {
	Log.Debug(format, v...)
}

func Trace(format string, v ...interface{}) {
	Log.Debug(format, v...)
}

// Fatal is equivalent to Error followed by os.Exit(1).
func Fatal(format string, v ...interface{}) {
	Log.Error(format, v...)
	Log.Flush()
	os.Exit(1)
}
