package service

import "errors"

var (
	ErrValidation = errors.New("validation") // 400 / 422
	ErrNotFound   = errors.New("not found")  // 404
	ErrForbidden  = errors.New("forbidden")  // 403
	ErrConflict   = errors.New("conflict")   // 409

	ErrPaymentRequired     = errors.New("payment not verified") // 402
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
