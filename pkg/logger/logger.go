package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	Setup(os.Getenv("ENVIRONMENT"))
}

// Setup rebuilds the package logger for the given environment. Production
// gets JSON output at info level, everything else a console encoder with
// debug enabled.
func Setup(environment string) {
	var cfg zap.Config
	if strings.EqualFold(environment, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	if base != nil {
		_ = base.Sync()
	}
	base = l
	sugar = l.Sugar()
}

// L returns the structured logger for call sites that want typed fields.
func L() *zap.Logger {
	return base.WithOptions(zap.AddCallerSkip(-1))
}

func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// LogLedgerError records a failed ledger mutation with the entity it touched.
func LogLedgerError(action, reference string, err error) {
	base.Warn("ledger mutation failed",
		zap.String("action", action),
		zap.String("reference", reference),
		zap.Error(err),
	)
}

func Sync() {
	_ = base.Sync()
}
