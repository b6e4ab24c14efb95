// Package logger provides structured logging for the storefront SDK.
//
// The Logger interface is small on purpose so that callers can plug in their
// own implementation. The default implementation wraps logrus:
//
//	log := logger.New(os.Stderr, logger.Options{Level: "debug", Format: "json"})
//	log.Info("cart reloaded", "cart_id", 12, "items", 3)
//
// Fields may be passed as alternating key/value pairs, as Field values, or as
// a bare error (logged under the "error" key). Child loggers carry their
// fields into every entry:
//
//	cartLog := log.With(logger.F("component", "cart"))
//
// JSON output uses the timestamp/severity/message field names expected by
// most log collectors. Text output (Format "text" or Pretty) is meant for
// terminals.
//
// NoOpLogger discards all output and is what every component falls back to
// when no logger is configured.
package logger
