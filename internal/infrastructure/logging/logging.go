package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger is the console capability used by the checker.
type Logger interface {
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

const (
	colorRed      = 31
	colorGreen    = 32
	colorYellow   = 33
	colorDarkGray = 90
	colorBgRed    = 101
	colorWhite    = 97
)

const (
	spacer   = " "
	frax     = spacer + "¤" + spacer
	square   = spacer + "■" + spacer
	triangle = spacer + "▲" + spacer
)

type Config struct {
	Level   string
	NoColor bool
	// File tees uncoloured lines to a rotating file when File.Path is set.
	File FileConfig
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

// Console writes one line per call: a gray clock, a coloured level symbol
// and the arguments joined by spaces. Info goes to Stdout, warn and error
// to Stderr.
type Console struct {
	out  zerolog.Logger
	err  zerolog.Logger
	now  func() time.Time
	file *RotatingFile
}

func New(cfg Config) (*Console, error) {
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	outWriter := io.Writer(consoleWriter(stdout, cfg.NoColor || !isTerminal(stdout)))
	errWriter := io.Writer(consoleWriter(stderr, cfg.NoColor || !isTerminal(stderr)))

	var file *RotatingFile
	if strings.TrimSpace(cfg.File.Path) != "" {
		rotating, err := NewRotatingFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = rotating
		plain := consoleWriter(rotating, true)
		outWriter = zerolog.MultiLevelWriter(outWriter, plain)
		errWriter = zerolog.MultiLevelWriter(errWriter, plain)
	}

	level := parseLevel(cfg.Level)
	return &Console{
		out:  zerolog.New(outWriter).Level(level),
		err:  zerolog.New(errWriter).Level(level),
		now:  now,
		file: file,
	}, nil
}

var defaultConsole = sync.OnceValue(func() *Console {
	console, _ := New(Config{})
	return console
})

// Default returns the process-wide console logger.
func Default() *Console {
	return defaultConsole()
}

func (c *Console) Info(args ...any) {
	c.out.Info().Str(zerolog.TimestampFieldName, c.clock()).Msg(render(args))
}

func (c *Console) Warn(args ...any) {
	c.err.Warn().Str(zerolog.TimestampFieldName, c.clock()).Msg(render(args))
}

func (c *Console) Error(args ...any) {
	c.err.Error().Str(zerolog.TimestampFieldName, c.clock()).Msg(render(args))
}

// Close releases the log file, if one was configured.
func (c *Console) Close() error {
	if c.file == nil {
		return nil
	}
	return c.file.Close()
}

func (c *Console) clock() string {
	return c.now().Local().Format("15:04:05")
}

func consoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i interface{}) string {
			return colorize(fmt.Sprintf("[%v]", i), noColor, colorDarkGray)
		},
		FormatLevel: func(i interface{}) string {
			switch i {
			case zerolog.LevelInfoValue:
				return colorize(square, noColor, colorGreen)
			case zerolog.LevelWarnValue:
				return colorize(triangle, noColor, colorYellow)
			case zerolog.LevelErrorValue:
				return colorize(frax, noColor, colorBgRed, colorWhite)
			default:
				return colorize(fmt.Sprintf("%v", i), noColor, colorRed)
			}
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%v", i)
		},
	}
}

func colorize(s string, disabled bool, codes ...int) string {
	if disabled || len(codes) == 0 {
		return s
	}
	var b strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&b, "\x1b[%dm", code)
	}
	b.WriteString(s)
	b.WriteString("\x1b[0m")
	return b.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}

func parseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
