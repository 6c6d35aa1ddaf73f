// Package persistence holds the key-value stores behind the workout log.
// Each subpackage satisfies domain.KeyValueStore; the log itself is always
// written as one whole blob under a single key.
package persistence

import "strings"

// Driver names accepted by the STORE_DRIVER setting.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// NormalizeDriver lowercases the driver name and defaults to the file store.
func NormalizeDriver(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DriverFile
	}
	return name
}
