// Package logging constructs the process logger. Everything is log/slog;
// this package only decides handler format (console or JSON), level, and
// whether console output gets color (TTY only).
package logging
