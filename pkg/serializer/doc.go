// Package serializer renders command output as JSON, YAML, or a
// flattened field/value table, writing to stdout or a file.
package serializer
