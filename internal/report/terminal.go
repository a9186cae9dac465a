package report

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const noColorEnvironmentVariable = "NO_COLOR"

// ResolveStyle picks the glamour style for output. An explicit style is kept
// as is; "auto" becomes "notty" when output is piped, redirected, NO_COLOR is
// set, or the terminal has no color support.
func ResolveStyle(output io.Writer, requested string) string {
	if requested != "" && requested != StyleAuto {
		return requested
	}
	if !isTerminal(output) || os.Getenv(noColorEnvironmentVariable) != "" {
		return StyleNoTTY
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return StyleNoTTY
	}
	return StyleAuto
}

func isTerminal(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
