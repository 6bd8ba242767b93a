// Package notify tells the user a countdown has run out.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Title is the heading of every completion notification.
const Title = "Time Up!"

// Notifier delivers a notification.
type Notifier interface {
	Notify(title, body string) error
}

// Func adapts a function to Notifier.
type Func func(title, body string) error

// Notify calls f.
func (f Func) Notify(title, body string) error { return f(title, body) }

// Discard drops every notification.
var Discard Notifier = Func(func(string, string) error { return nil })

// Message builds the title and body shown after a run of limitMinutes.
func Message(limitMinutes float64) (title, body string) {
	n := strconv.FormatFloat(limitMinutes, 'f', -1, 64)
	if limitMinutes == 1 {
		return Title, "1 minute has passed. Take a break!"
	}
	return Title, n + " minutes have passed. Take a break!"
}

// Desktop sends notifications through the platform's notification tool.
type Desktop struct {
	// AppName is shown as the sender where the platform supports it.
	AppName string

	// command builds the process to run; replaced in tests.
	command func(name string, args ...string) *exec.Cmd
}

// NewDesktop creates a desktop notifier.
func NewDesktop(appName string) *Desktop {
	return &Desktop{AppName: appName, command: exec.Command}
}

// Notify shows title and body as a desktop notification.
func (d *Desktop) Notify(title, body string) error {
	name, args, err := desktopCommand(runtime.GOOS, d.AppName, title, body)
	if err != nil {
		return err
	}

	command := d.command
	if command == nil {
		command = exec.Command
	}
	if out, err := command(name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func desktopCommand(goos, appName, title, body string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{}
		if appName != "" {
			args = append(args, "--app-name", appName)
		}
		return "notify-send", append(args, title, body), nil
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleQuote(body), appleQuote(title))
		return "osascript", []string{"-e", script}, nil
	case "windows":
		script := fmt.Sprintf(
			"[reflection.assembly]::loadwithpartialname('System.Windows.Forms') | Out-Null; "+
				"$n = New-Object System.Windows.Forms.NotifyIcon; "+
				"$n.Icon = [System.Drawing.SystemIcons]::Information; $n.Visible = $true; "+
				"$n.ShowBalloonTip(5000, %s, %s, 'Info'); Start-Sleep -Seconds 6; $n.Dispose()",
			psQuote(title), psQuote(body))
		return "powershell", []string{"-NoProfile", "-Command", script}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func appleQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
