package main

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	titleColor   = color.New(color.FgMagenta, color.Bold)
	phaseColor   = color.New(color.FgCyan, color.Bold)
)

func printSuccess(format string, args ...any) { successColor.Printf(format+"\n", args...) }
func printError(format string, args ...any)   { errorColor.Printf(format+"\n", args...) }
func printWarning(format string, args ...any) { warnColor.Printf(format+"\n", args...) }
func printTitle(format string, args ...any)   { titleColor.Printf(format+"\n", args...) }
func printPhase(format string, args ...any)   { phaseColor.Printf(format+"\n", args...) }

// terminalView adapts the upload controller to the terminal: visibility
// changes become printed status lines, navigation becomes the captured
// redirect URL.
type terminalView struct {
	redirectURL string
}

func newTerminalView() *terminalView { return &terminalView{} }

func (v *terminalView) ShowError(msg string) { printError("%s", msg) }

func (v *terminalView) ClearError() {}

func (v *terminalView) ShowFileInfo(name string) { infoColor.Printf("Выбран файл: %s\n", name) }

func (v *terminalView) ShowDropZone() {}

func (v *terminalView) SetSubmitEnabled(bool) {}

func (v *terminalView) SetLoading(loading bool) {
	if loading {
		fmt.Println("Загрузка...")
	}
}

func (v *terminalView) Navigate(url string) { v.redirectURL = url }
