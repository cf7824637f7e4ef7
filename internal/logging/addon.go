package logging

import (
	"go.uber.org/zap"
)

// Field keys added to every addon log entry
const (
	FieldAddonType = "addon_type"
	FieldAddonName = "addon_name"
)

// AddonLogger is a logger bound to one addon.
type AddonLogger struct {
	*zap.Logger
	addonType string
	addonName string
}

// ForAddon returns a logger that tags entries with the addon's type and name.
func (l *Logger) ForAddon(addonType, addonName string) *AddonLogger {
	if l == nil || l.Logger == nil {
		l = NewNop()
	}
	return &AddonLogger{
		Logger: l.With(
			zap.String(FieldAddonType, addonType),
			zap.String(FieldAddonName, addonName),
		),
		addonType: addonType,
		addonName: addonName,
	}
}

// Fatal records an entry at error level marked fatal=true. Unlike
// zap.Logger.Fatal it does not terminate the process: one addon must not be
// able to bring down the host.
func (a *AddonLogger) Fatal(msg string, fields ...zap.Field) {
	a.Logger.Error(msg, append(fields, zap.Bool("fatal", true))...)
}

// AddonType returns the addon type the logger is bound to
func (a *AddonLogger) AddonType() string { return a.addonType }

// AddonName returns the addon name the logger is bound to
func (a *AddonLogger) AddonName() string { return a.addonName }
