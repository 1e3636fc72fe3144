package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrCompanyClaimMissing = errors.New("company_id claim is missing or invalid")
)
