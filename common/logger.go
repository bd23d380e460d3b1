package common

import (
	"fmt"

	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO                 = 2
	PLANNER_FUNC_CALL          = 4
	DEBUGGING                  = 8
	INFO                       = 16
	WARN                       = 32
	ERROR                      = 64
	FATAL                      = 128
)

var logger *zap.SugaredLogger = newDefaultLogger()

func newDefaultLogger() *zap.SugaredLogger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLogger replaces the backend of ShPrintf. nil restores a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

func GetLogger() *zap.SugaredLogger {
	return logger
}

// ShPrintf emits a message when logLevel is enabled in LogLevelSetting.
func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&LogLevelSetting == 0 {
		return
	}
	msg := fmt.Sprintf(fmtStl, a...)
	switch {
	case logLevel >= ERROR:
		logger.Error(msg)
	case logLevel >= WARN:
		logger.Warn(msg)
	case logLevel >= INFO:
		logger.Info(msg)
	default:
		logger.Debug(msg)
	}
}

// ParseLogLevel converts a config name into the mask of levels it enables.
// "debug" enables everything, "info" enables INFO and above, and so on.
func ParseLogLevel(name string) (LogLevel, error) {
	var lowest LogLevel
	switch name {
	case "detail":
		lowest = DEBUG_INFO_DETAIL
	case "debug":
		lowest = DEBUG_INFO
	case "info", "":
		lowest = INFO
	case "warn":
		lowest = WARN
	case "error":
		lowest = ERROR
	case "fatal":
		lowest = FATAL
	default:
		return 0, errors.Errorf("unknown log level: %s", name)
	}
	var mask LogLevel
	for l := lowest; l <= FATAL; l <<= 1 {
		mask |= l
	}
	return mask, nil
}
