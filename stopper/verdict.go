package stopper

// Verdict is the result of validating one line.
// Message is empty exactly when Valid is true.
type Verdict struct {
	Valid   bool
	Message string
}

func accept() Verdict {
	return Verdict{Valid: true}
}

func reject(msg string) Verdict {
	if msg == "" {
		msg = "Line rejected."
	}
	return Verdict{Valid: false, Message: msg}
}

// Err returns nil for a valid verdict and a *LineRejectedError otherwise.
func (v Verdict) Err() error {
	if v.Valid {
		return nil
	}
	return &LineRejectedError{Message: v.Message}
}

// LineRejectedError is the only failure the rule engine can report.
type LineRejectedError struct {
	Message string
}

func (e *LineRejectedError) Error() string {
	return "line rejected: " + e.Message
}
