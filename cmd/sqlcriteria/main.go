// Package main provides a CLI for rendering declarative query documents.
//
// The CLI supports:
//   - render: Replay YAML query documents through the criteria builders and print SQL
//   - check: Validate query documents without rendering them
//   - config show: Print the effective configuration
//   - version: Print version information
//
// Usage:
//
//	sqlcriteria [flags] <command>
package main

func main() {
	Execute()
}
