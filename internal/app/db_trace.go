package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace renders a query as one line for the db.statement
// span attribute. Long statements are cut at maxTracedQueryLength bytes.
func formatDBQueryForTrace(query string) string {
	oneLine := strings.Join(strings.Fields(query), " ")
	oneLine = strings.TrimSpace(strings.TrimSuffix(oneLine, ";"))
	if len(oneLine) > maxTracedQueryLength {
		return oneLine[:maxTracedQueryLength] + "..."
	}
	return oneLine
}
