package predictions

import "fmt"

// ModelFetchError indicates a single model's prediction fetch failed.
// The ensemble logs it and drops the model for the request; it never
// fails the whole decision.
type ModelFetchError struct {
	Model string
	Cause error
}

// Error returns the error message.
func (e *ModelFetchError) Error() string {
	return fmt.Sprintf("model %q prediction fetch failed: %v", e.Model, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ModelFetchError) Unwrap() error {
	return e.Cause
}

// ModelResponseError indicates a model endpoint answered with a malformed
// or out-of-range prediction.
type ModelResponseError struct {
	Model  string
	Detail string
}

// Error returns the error message.
func (e *ModelResponseError) Error() string {
	return fmt.Sprintf("model %q returned invalid prediction: %s", e.Model, e.Detail)
}
