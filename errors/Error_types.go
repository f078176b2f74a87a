package errors

var (
	ErrUnknown            = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument    = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound           = New(ERR_NOT_FOUND, "not found")
	ErrProcessing         = New(ERR_PROCESSING, "error processing")
	ErrConfiguration      = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled    = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError              = New(ERR_ERROR, "generic error")
	ErrBlockInvalid       = New(ERR_BLOCK_INVALID, "block invalid")
	ErrTxNotFound         = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid          = New(ERR_TX_INVALID, "tx invalid")
	ErrCoinNotFound       = New(ERR_COIN_NOT_FOUND, "coin not found")
	ErrCoinSpent          = New(ERR_COIN_SPENT, "coin already spent")
	ErrNameNotFound       = New(ERR_NAME_NOT_FOUND, "name not found")
	ErrNameExists         = New(ERR_NAME_EXISTS, "name already registered")
	ErrNameExpired        = New(ERR_NAME_EXPIRED, "name expired")
	ErrNameInvalid        = New(ERR_NAME_INVALID, "name invalid")
	ErrServiceError       = New(ERR_SERVICE_ERROR, "service error")
	ErrStorageUnavailable = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageError       = New(ERR_STORAGE_ERROR, "storage error")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewCoinNotFoundError(message string, params ...interface{}) error {
	return New(ERR_COIN_NOT_FOUND, message, params...)
}
func NewCoinSpentError(message string, params ...interface{}) error {
	return New(ERR_COIN_SPENT, message, params...)
}
func NewNameNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NAME_NOT_FOUND, message, params...)
}
func NewNameExistsError(message string, params ...interface{}) error {
	return New(ERR_NAME_EXISTS, message, params...)
}
func NewNameExpiredError(message string, params ...interface{}) error {
	return New(ERR_NAME_EXPIRED, message, params...)
}
func NewNameInvalidError(message string, params ...interface{}) error {
	return New(ERR_NAME_INVALID, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
