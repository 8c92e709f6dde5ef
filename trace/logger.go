package trace

import (
	"go.uber.org/zap"

	"github.com/tef/peg"
)

// Logger writes each hook call to a zap logger at debug level, and raises
// at warn level.
type Logger struct {
	Log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{Log: log.Named("peg")}
}

func (l *Logger) fields(r peg.Rule, in *peg.Input) []zap.Field {
	return []zap.Field{
		zap.String("rule", peg.Describe(r)),
		zap.Stringer("pos", in.Position()),
	}
}

func (l *Logger) Start(r peg.Rule, in *peg.Input, _ any) {
	l.Log.Debug("start", l.fields(r, in)...)
}

func (l *Logger) Success(r peg.Rule, in *peg.Input, _ any) {
	l.Log.Debug("success", l.fields(r, in)...)
}

func (l *Logger) Failure(r peg.Rule, in *peg.Input, _ any) {
	l.Log.Debug("failure", l.fields(r, in)...)
}

func (l *Logger) Raise(r peg.Rule, in *peg.Input, _ any, err error) {
	l.Log.Warn("raise", append(l.fields(r, in), zap.Error(err))...)
}
