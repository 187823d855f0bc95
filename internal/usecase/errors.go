package usecase

import "errors"

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeInvalidFilter   = "INVALID_FILTER"
	CodeInvalidExport   = "INVALID_EXPORT_FORMAT"
	CodeLeadNotFound    = "LEAD_NOT_FOUND"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeStoreError      = "STORE_ERROR"
	CodeSelectionError  = "SELECTION_ERROR"
	CodeExportError     = "EXPORT_ERROR"
)

// DomainError is a business-rule failure the caller can fix.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure (store, cache, encoder).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func storeError(op string, err error) *TechnicalError {
	return &TechnicalError{
		Code:    CodeStoreError,
		Message: op + ": " + err.Error(),
		Err:     err,
	}
}
