package lispy

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"
	"time"
)

var Verbose bool // toggled by .verb at the repl

// VerboseOut receives VPrintf output.
var VerboseOut io.Writer = os.Stderr

var vprintMut sync.Mutex

// VPrintf prints a time-stamped, caller-tagged line when Verbose is on.
func VPrintf(format string, a ...interface{}) {
	if !Verbose {
		return
	}
	vprintMut.Lock()
	defer vprintMut.Unlock()
	stamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(VerboseOut, "%s %s ", FileLine(2), stamp)
	fmt.Fprintf(VerboseOut, format, a...)
}

// FileLine reports base-file:line of the caller depth frames up.
func FileLine(depth int) string {
	_, fileName, fileLine, ok := runtime.Caller(depth)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", path.Base(fileName), fileLine)
}
