package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"labelprint-service/apperrors"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed, color.Bold)
	cyan  = color.New(color.FgCyan)
)

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func info(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, format+"\n", a...)
}

func heading(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, format+"\n", a...)
}

// failure prints err with its kind to w and returns it for cobra.
func failure(w io.Writer, err error) error {
	red.Fprintf(w, "✗ %s\n", err.Error())
	if kind := apperrors.KindOf(err); kind != apperrors.KindInternal {
		fmt.Fprintf(w, "  (%s error)\n", kind)
	}
	return err
}
