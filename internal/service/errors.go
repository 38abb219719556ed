package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or revoked")

	ErrMissingField    = errors.New("required field is empty")
	ErrUnknownCategory = errors.New("award category is not in the category set")

	ErrProtectedCategory   = errors.New("default category cannot be removed")
	ErrConfirmTokenInvalid = errors.New("confirmation token invalid or expired")

	ErrSessionNotFound = errors.New("scan session not found")
	ErrSessionClosed   = errors.New("scan session is closed")
	ErrSessionFailed   = errors.New("scan session failed; restart required")
)
