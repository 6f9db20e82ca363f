// Package color styles CLI output.
package color

import (
	"github.com/fatih/color"
)

var (
	promptColor  = color.New(color.FgCyan, color.Bold)
	infoColor    = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
)

func Prompt(s string) string {
	return promptColor.Sprint(s)
}

func Info(s string) string {
	return infoColor.Sprint(s)
}

func Warning(s string) string {
	return warningColor.Sprint(s)
}

func Error(s string) string {
	return errorColor.Sprint(s)
}

func Success(s string) string {
	return successColor.Sprint(s)
}
