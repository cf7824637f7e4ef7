// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Addon code never logs through the root logger directly. ForAddon returns an
// AddonLogger that stamps every entry with the addon's type and name, so a log
// line can always be traced back to the addon that wrote it:
//
//	log := logger.ForAddon("plugin", "karma")
//	log.Info("vote recorded", zap.String("entry", slug))
//	log.Fatal("config unreadable") // logged at error level, process keeps running
package logging
