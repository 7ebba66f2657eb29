package whmcsmp

import (
	"fmt"
	"strings"
)

// Code identifies a configuration error condition.
type Code string

const (
	ENOGHTOKEN             Code = "ENOGHTOKEN"
	EWHMCSNOCREDENTIALS    Code = "EWHMCSNOCREDENTIALS"
	EWHMCSNOPRODUCTID      Code = "EWHMCSNOPRODUCTID"
	EWHMCSINVALIDPRODUCTID Code = "EWHMCSINVALIDPRODUCTID"
)

// CodeError is a structured, user-facing configuration error.
type CodeError struct {
	Code    Code
	Message string
	Details string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var errorDefinitions = map[Code]CodeError{
	ENOGHTOKEN: {
		Message: "No GitHub token specified.",
		Details: "Set a `GH_TOKEN` in your repository secrets so releases can be listed for synchronization.",
	},
	EWHMCSNOCREDENTIALS: {
		Message: "No WHMCS Marketplace credentials specified.",
		Details: "Set the `WHMCSMP_LOGIN` and `WHMCSMP_PASSWORD` environment variables in your CI environment.",
	},
	EWHMCSNOPRODUCTID: {
		Message: "No WHMCS Marketplace product ID specified.",
		Details: "Set the `WHMCSMP_PRODUCTID` environment variable in your CI environment. You'll find the number in the URL when visiting the product page in the WHMCS Marketplace.",
	},
	EWHMCSINVALIDPRODUCTID: {
		Message: "Invalid WHMCS Marketplace product ID specified.",
		Details: "The `WHMCSMP_PRODUCTID` environment variable must contain the numeric product ID. You'll find the number in the URL when visiting the product page in the WHMCS Marketplace.",
	},
}

// NewError builds the CodeError for a known code.
func NewError(code Code) *CodeError {
	def, ok := errorDefinitions[code]
	if !ok {
		return &CodeError{Code: code, Message: "Unknown error."}
	}
	def.Code = code
	return &def
}

// VerificationError aggregates every configuration condition violated by a
// run, so a user can fix all of them at once instead of one per attempt.
type VerificationError struct {
	Errors []*CodeError
}

func (e *VerificationError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(messages, "; ")
}

// Codes returns the codes of all aggregated errors.
func (e *VerificationError) Codes() []Code {
	codes := make([]Code, len(e.Errors))
	for i, err := range e.Errors {
		codes[i] = err.Code
	}
	return codes
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e *VerificationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}
