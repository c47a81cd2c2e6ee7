package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Environment variable to configure the log destination.
const envLogPath = "WEATHER_MCP_LOG"

// StderrPath selects stderr instead of a file. The MCP server must never log
// to stdout (it would corrupt the stdio protocol), so file logging is the
// default there; the HTTP daemon typically passes StderrPath.
const StderrPath = "-"

var (
	std           *log.Logger
	logFile       *os.File
	isInitialized bool
)

// InitFromEnv initializes the logger using WEATHER_MCP_LOG or a default path
// next to the executable.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "weather-mcp.log")
		} else {
			path = "./weather-mcp.log"
		}
	}
	return Init(path)
}

// Init initializes the logger to write to the provided file path, creating
// parent directories as needed and appending to an existing file. Passing
// StderrPath (or "") writes to stderr instead.
func Init(path string) error {
	if isInitialized {
		return nil
	}
	if path == "" || path == StderrPath {
		std = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
		isInitialized = true
		return nil
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	std = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	isInitialized = true
	return nil
}

// Close closes the underlying log file, if open.
func Close() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Infof logs informational messages.
func Infof(format string, args ...any) { write("INFO", format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { write("WARN", format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { write("ERROR", format, args...) }

func write(level string, format string, args ...any) {
	if std == nil {
		// Fallback: initialize with the default destination if needed.
		_ = InitFromEnv()
	}
	if std != nil {
		std.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
