package ui

import (
	"os"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogWarn  = "dialog-warning"

	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

// ErrorAndNotify logs the error and additionally tries to show a desktop notification,
// which is useful when lux2go runs as a service on a machine with a display attached.
func ErrorAndNotify(title, format string, a ...interface{}) {
	Error(format, a...)
	text := pterm.Sprintf(format, a...)
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

func WarningAndNotify(title, format string, a ...interface{}) {
	Warning(format, a...)
	text := pterm.Sprintf(format, a...)
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Not sending notification, missing env variable 'DISPLAY'")
		return
	}

	output, err := exec.Command("who").Output()
	if err != nil {
		Warning("Cannot send notification, unable to find user of display session: %v", err)
		return
	}
	var user string
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.Contains(line, display) {
			user = fields[0]
			break
		}
	}
	if len(user) <= 0 {
		Warning("Cannot send notification, unable to detect user of current display session")
		return
	}

	output, err = exec.Command("id", "-u", user).Output()
	userId := strings.TrimSpace(string(output))
	if err != nil || len(userId) <= 0 {
		Warning("Cannot send notification, unable to detect user id of %s", user)
		return
	}

	err = exec.Command("sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+userId+"/bus",
		"notify-send",
		"-a", "lux2go",
		"-u", urgency,
		"-i", icon,
		title, text,
	).Run()
	if err != nil {
		Error("Error sending notification: %v", err)
	}
}
