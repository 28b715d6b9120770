package pipeline

import "fmt"

// ExternalCallError reports the stage whose model call failed. The run that
// returns it has produced no report.
type ExternalCallError struct {
	Stage StageKind
	Err   error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// Remediation is the advice shown next to the error.
func (e *ExternalCallError) Remediation() string {
	return "Check your internet connection, verify the model API key is set correctly, then submit the assessment again."
}
