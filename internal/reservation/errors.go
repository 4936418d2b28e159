package reservation

import "errors"

// Taxonomia de falhas do fluxo de pagamento. Os handlers HTTP transformam
// qualquer uma delas em 400 {error}; o chamador externo decide se reenvia.
var (
	ErrConfiguration  = errors.New("payment provider is not configured")
	ErrNotFound       = errors.New("not found")
	ErrExpired        = errors.New("reservation payment window expired")
	ErrInvalidPrice   = errors.New("invalid reservation price")
	ErrProviderQuery  = errors.New("payment provider query failed")
	ErrProviderSubmit = errors.New("payment provider request failed")
	ErrDatabase       = errors.New("database error")
	ErrEmailProvider  = errors.New("email provider request failed")
)
