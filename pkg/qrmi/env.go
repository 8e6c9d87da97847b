package qrmi

import (
	"fmt"
	"os"
)

// EnvKey returns the resource-scoped environment variable name for a
// key: {resource}_{key}. Resource definitions are written with
// unprefixed keys; the prefix keeps resources from clashing when
// several are configured in one process.
func EnvKey(resource, key string) string {
	return resource + "_" + key
}

// Env reads a resource-scoped environment variable, returning an
// error naming the variable when it is unset or empty.
func Env(resource, key string) (string, error) {
	name := EnvKey(resource, key)
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("qrmi: %s is not set", name)
	}
	return v, nil
}

// EnvOr reads a resource-scoped environment variable, falling back to
// def when it is unset or empty.
func EnvOr(resource, key, def string) string {
	if v := os.Getenv(EnvKey(resource, key)); v != "" {
		return v
	}
	return def
}
