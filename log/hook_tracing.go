package log

import (
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// Frames skipped by zerolog between Msg call and hook Run.
const callerSkip = 3

// TracingHook adds caller's package to every log line. If the package
// is versioned (e.g. "domains/contacts/v1") the version is written as a
// separate field. With WithTrace function, file and line are added too.
type TracingHook struct {
	WithTrace bool
}

func NewTracingHook(withTrace bool) TracingHook {
	return TracingHook{WithTrace: withTrace}
}

func (h TracingHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	pc, _, _, ok := runtime.Caller(callerSkip)
	if !ok {
		return
	}

	frame := runtime.FuncForPC(pc)
	if frame == nil {
		return
	}

	packageName, function := splitFuncName(frame.Name())
	if idx := strings.LastIndex(packageName, "/"); idx >= 0 {
		last := packageName[idx+1:]
		if isVersion(last) {
			e.Str("version", last)
			packageName = packageName[:idx]
		}
	}

	e.Str("package", packageName)

	if h.WithTrace || (zerolog.GlobalLevel() == zerolog.TraceLevel && level == zerolog.TraceLevel) {
		fileName, lineNo := frame.FileLine(pc)
		e.Str("function", function).
			Str("file", fileName).
			Int("line", lineNo)
	}
}

// splitFuncName splits "github.com/a/b/pkg.(*T).Method" into package path
// and function part.
func splitFuncName(name string) (pkg, function string) {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return name, ""
	}
	dot += slash + 1
	return name[:dot], name[dot+1:]
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
