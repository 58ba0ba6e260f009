package services

import "fmt"

// ErrorCode classifies a report failure for HTTP mapping.
type ErrorCode string

const (
	CodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	CodeValidation         ErrorCode = "VALIDATION"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeUpstreamFailure    ErrorCode = "UPSTREAM_FAILURE"
	CodeInternal           ErrorCode = "INTERNAL"
)

// ReportError is a typed service error. Handlers map the code to a status:
// MISSING_CREDENTIALS and VALIDATION to 400, NOT_FOUND to 404,
// UPSTREAM_FAILURE to 502, everything else to 500.
type ReportError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func errMissingCredentials() *ReportError {
	return &ReportError{Code: CodeMissingCredentials, Message: "Missing required headers"}
}

func errValidation(message string) *ReportError {
	return &ReportError{Code: CodeValidation, Message: message}
}

func errNotFound(message string) *ReportError {
	return &ReportError{Code: CodeNotFound, Message: message}
}

func errUpstream(err error) *ReportError {
	return &ReportError{Code: CodeUpstreamFailure, Message: "Failed to fetch orders from upstream", Err: err}
}

func errInternal(message string, err error) *ReportError {
	return &ReportError{Code: CodeInternal, Message: message, Err: err}
}
