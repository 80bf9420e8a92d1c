package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/pdcaflow/internal/constants"
)

// Logger is the process-wide logger. It stays nil until Init, and every helper
// below is a no-op until then.
var Logger *log.Logger

// Config controls where logs go and how verbose they are.
type Config struct {
	Debug     bool
	ConfigDir string
}

// LogDir returns the directory log files are written to for a config dir.
func LogDir(configDir string) string {
	return filepath.Join(configDir, "logs")
}

// Init sets up the global logger with a rotating file under ConfigDir/logs. In debug
// mode the log is mirrored to stderr and caller information is reported.
func Init(cfg Config) error {
	dir := LogDir(cfg.ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var w io.Writer = rotating
	level := log.InfoLevel
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, rotating)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Printer adapts the logger to the func(string) progress callbacks used by the
// migration runner.
func Printer(msg string) {
	Info(msg)
}
