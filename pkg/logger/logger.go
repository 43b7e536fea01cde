package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel is a logging verbosity threshold; a message is emitted only when
// the active level is at or above the level it was logged at.
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// subsystem identifies one of the per-component log gates below Info.
type subsystem int

const (
	subsystemCPU subsystem = iota
	subsystemPPU
	subsystemAPU
	subsystemMapper
)

// subsystemTag and subsystemMinLevel describe how each subsystem's gate
// behaves: CPU/APU/Mapper chatter from Debug upward, PPU only at Trace
// (it is by far the noisiest, one call per dot).
var subsystemTag = map[subsystem]string{
	subsystemCPU:    "CPU",
	subsystemPPU:    "PPU",
	subsystemAPU:    "APU",
	subsystemMapper: "MAPPER",
}

var subsystemMinLevel = map[subsystem]LogLevel{
	subsystemCPU:    LogLevelDebug,
	subsystemPPU:    LogLevelTrace,
	subsystemAPU:    LogLevelDebug,
	subsystemMapper: LogLevelDebug,
}

// Logger writes leveled, timestamped lines to a single writer, with an
// independent on/off switch per subsystem so a caller can enable PPU tracing
// without drowning in CPU instruction traces.
type Logger struct {
	level   LogLevel
	writer  io.Writer
	enabled map[subsystem]bool
}

var globalLogger *Logger

// Initialize creates the process-wide logger. An empty filename logs to
// stdout; otherwise a new file is created (and truncated if it exists).
func Initialize(level LogLevel, filename string) error {
	writer := io.Writer(os.Stdout)
	if filename != "" {
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("logger: open log file: %w", err)
		}
		writer = file
	}

	globalLogger = &Logger{
		level:  level,
		writer: writer,
		enabled: map[subsystem]bool{
			subsystemCPU:    true,
			subsystemPPU:    false,
			subsystemAPU:    false,
			subsystemMapper: false,
		},
	}
	return nil
}

// Close releases any file the logger opened. Stdout/stderr are left alone.
func Close() {
	if globalLogger == nil {
		return
	}
	if file, ok := globalLogger.writer.(*os.File); ok && file != os.Stdout && file != os.Stderr {
		file.Close()
	}
}

func setSubsystem(s subsystem, enabled bool) {
	if globalLogger != nil {
		globalLogger.enabled[s] = enabled
	}
}

func SetCPULogging(enabled bool)    { setSubsystem(subsystemCPU, enabled) }
func SetPPULogging(enabled bool)    { setSubsystem(subsystemPPU, enabled) }
func SetAPULogging(enabled bool)    { setSubsystem(subsystemAPU, enabled) }
func SetMapperLogging(enabled bool) { setSubsystem(subsystemMapper, enabled) }

func logSubsystem(s subsystem, format string, args ...interface{}) {
	if globalLogger == nil || !globalLogger.enabled[s] || globalLogger.level < subsystemMinLevel[s] {
		return
	}
	emit(subsystemTag[s], format, args...)
}

func LogCPU(format string, args ...interface{})    { logSubsystem(subsystemCPU, format, args...) }
func LogPPU(format string, args ...interface{})    { logSubsystem(subsystemPPU, format, args...) }
func LogAPU(format string, args ...interface{})    { logSubsystem(subsystemAPU, format, args...) }
func LogMapper(format string, args ...interface{}) { logSubsystem(subsystemMapper, format, args...) }

// LogInfo logs a general informational message, independent of any
// subsystem gate.
func LogInfo(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.level >= LogLevelInfo {
		emit("INFO", format, args...)
	}
}

// LogError logs an error message; this is the only level that survives at
// LogLevelError, the quietest non-off setting.
func LogError(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.level >= LogLevelError {
		emit("ERROR", format, args...)
	}
}

// LogDebug logs a generic debug message, not gated by any subsystem switch.
func LogDebug(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.level >= LogLevelDebug {
		emit("DEBUG", format, args...)
	}
}

func emit(tag, format string, args ...interface{}) {
	fmt.Fprintf(globalLogger.writer, "[%s] %s: %s\n",
		time.Now().Format("15:04:05.000"), tag, fmt.Sprintf(format, args...))
}

// GetLogLevelFromString parses a CLI-facing level name. Unrecognized input
// falls back to Info rather than erroring, since this only ever feeds a
// --log-level flag default.
func GetLogLevelFromString(level string) LogLevel {
	switch level {
	case "off":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	case "trace":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}
