// Package config loads the billboard configuration: one TOML file parsed at
// process start into a single structure that is passed down to every
// component. Secrets may be supplied through environment variables, which
// override file values.
package config
