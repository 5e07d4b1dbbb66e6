package validate

import "fmt"

// APICallError indicates the LLM API call itself failed.
type APICallError struct {
	Model string
	Cause error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("LLM call failed (model %s): %v", e.Model, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the LLM returned output that could not be parsed
// or did not match the response schema.
type ParseError struct {
	Response string
	Cause    error
}

func (e *ParseError) Error() string {
	snippet := e.Response
	if len(snippet) > 120 {
		snippet = snippet[:120] + "..."
	}
	return fmt.Sprintf("failed to parse LLM response %q: %v", snippet, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
