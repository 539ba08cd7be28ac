package shell

// formatError renders a shell-level error message as "<prefix>: <reason>"
// (spec.md §7), e.g. "SD mount: file not found".
func formatError(prefix string, err error) string {
	return prefix + ": " + err.Error()
}
