package lsif

import "fmt"

// ImportError locates a configuration problem in a document.
type ImportError struct {
	Field  string
	Symbol string
	Reason string
}

func (e *ImportError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("lsif %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("lsif %s %q: %s", e.Field, e.Symbol, e.Reason)
}

func importErrorf(field, symbol, format string, args ...interface{}) *ImportError {
	return &ImportError{
		Field:  field,
		Symbol: symbol,
		Reason: fmt.Sprintf(format, args...),
	}
}
