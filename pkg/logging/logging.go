package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// writerHook copies every entry to all configured writers
type writerHook struct {
	Writer    []io.Writer
	LogLevels []logrus.Level
}

func (hook *writerHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	for _, w := range hook.Writer {
		_, _ = w.Write([]byte(line))
	}
	return nil
}

func (hook *writerHook) Levels() []logrus.Level {
	return hook.LogLevels
}

type Logger struct {
	*logrus.Entry
}

var (
	entry *logrus.Entry
	hook  *writerHook
	once  sync.Once
)

func GetLogger() *Logger {
	once.Do(setup)
	return &Logger{entry}
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{l.Entry.WithField(key, value)}
}

func (l *Logger) WithFields(fields logrus.Fields) *Logger {
	return &Logger{l.Entry.WithFields(fields)}
}

// DebugEnabled reports whether debug entries are emitted
func (l *Logger) DebugEnabled() bool {
	return l.Logger.IsLevelEnabled(logrus.DebugLevel)
}

// Init adds <dir>/all.log next to stdout and sets the level.
func Init(dir string, debug bool) error {
	once.Do(setup)

	if debug {
		entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		entry.Logger.SetLevel(logrus.InfoLevel)
	}

	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0770); err != nil {
		return errors.Wrapf(err, "failed os.MkdirAll(%s)", dir)
	}
	file, err := os.OpenFile(filepath.Join(dir, "all.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return errors.Wrap(err, "failed open all.log")
	}
	hook.Writer = append(hook.Writer, file)
	return nil
}

func setup() {
	l := logrus.New()
	l.SetReportCaller(true)
	l.Formatter = &logrus.TextFormatter{
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			filename := path.Base(frame.File)
			return fmt.Sprintf("%s()", path.Base(frame.Function)), fmt.Sprintf("%s:%d", filename, frame.Line)
		},
		DisableColors: true,
		FullTimestamp: true,
	}
	l.SetOutput(io.Discard)

	hook = &writerHook{
		Writer:    []io.Writer{os.Stdout},
		LogLevels: logrus.AllLevels,
	}
	l.AddHook(hook)
	l.SetLevel(logrus.InfoLevel)

	entry = logrus.NewEntry(l)
}
