// Package shared holds helpers used across packages. Its testutil
// subpackage provides launch dataset fixtures and a capturing slog handler
// for tests.
package shared
