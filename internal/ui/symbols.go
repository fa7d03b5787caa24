package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Check or request succeeded
	SymbolFail    = "✗" // Check or request failed
	SymbolSkipped = "⊘" // Warning, or skipped
)
