package models

// Validation error codes. They are part of the API contract: handlers expose
// them as the "type" of each error detail.
const (
	CodeInvalidUserID        = "InvalidUserId"
	CodeInvalidAccountNumber = "InvalidAccountNumber"
	CodeInvalidAccountType   = "InvalidAccountType"
	CodeInvalidBalance       = "InvalidBalance"
	CodeInvalidAmount        = "InvalidAmount"
	CodeBalanceTooLarge      = "BalanceTooLarge"
	CodeInsufficientFunds    = "InsufficientFunds"
	CodeInvalidAccountID     = "InvalidAccountId"
	CodeInvalidType          = "InvalidType"
	CodeInvalidStatus        = "InvalidStatus"
	CodeInvalidDescription   = "InvalidDescription"
	CodeInvalidBalanceAfter  = "InvalidBalanceAfter"
	CodeInvalidPagination    = "InvalidPagination"
)

// ValidationError reports a field value that violates an entity constraint.
// Two ValidationErrors match under errors.Is when their codes are equal, so
// callers compare against the Err* values below regardless of message.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

func newValidationError(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

var (
	ErrInvalidUserID        = newValidationError(CodeInvalidUserID, "user_id", "User ID must be a positive integer")
	ErrInvalidAccountNumber = newValidationError(CodeInvalidAccountNumber, "account_number", "Account number must be between 1 and 20 characters")
	ErrInvalidAccountType   = newValidationError(CodeInvalidAccountType, "account_type", "Invalid account type. Must be 'savings' or 'checking'")
	ErrInvalidBalance       = newValidationError(CodeInvalidBalance, "balance", "Balance must be a non-negative number")
	ErrBalanceTooLarge      = newValidationError(CodeBalanceTooLarge, "balance", "Balance is too large")
	ErrInvalidAmount        = newValidationError(CodeInvalidAmount, "amount", "Amount must be a positive number")
	ErrInsufficientFunds    = newValidationError(CodeInsufficientFunds, "amount", "Insufficient funds")
	ErrInvalidAccountID     = newValidationError(CodeInvalidAccountID, "account_id", "Account ID must be a positive 32-bit integer")
	ErrInvalidType          = newValidationError(CodeInvalidType, "type", "Invalid transaction type. Must be 'deposit', 'withdrawal' or 'transfer'")
	ErrInvalidStatus        = newValidationError(CodeInvalidStatus, "status", "Invalid status. Must be 'pending', 'completed' or 'failed'")
	ErrInvalidDescription   = newValidationError(CodeInvalidDescription, "description", "Description must be at most 200 characters")
	ErrInvalidBalanceAfter  = newValidationError(CodeInvalidBalanceAfter, "balance_after", "Balance after must be a finite number")
	ErrInvalidPagination    = newValidationError(CodeInvalidPagination, "page", "page and per_page must be positive integers")
)
