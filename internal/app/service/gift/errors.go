package gift

import "errors"

var (
	// ErrInvalidCode covers both malformed codes and codes that do not exist.
	ErrInvalidCode = errors.New("gift code is invalid")
	// ErrAlreadyRedeemed is returned when the code has been claimed before,
	// including losing the race against a concurrent redemption.
	ErrAlreadyRedeemed = errors.New("gift code already redeemed")
	ErrExpired         = errors.New("gift code expired")
	// ErrPetCountMismatch is returned when more reports are submitted than
	// the certificate covers.
	ErrPetCountMismatch = errors.New("report count exceeds certificate pet count")
	// ErrCodeGenerationExhausted is returned when repeated collisions keep a
	// fresh code from being issued.
	ErrCodeGenerationExhausted = errors.New("gift code generation exhausted retries")
	// ErrClaimFailed marks a store failure on the claim write itself. The
	// attempt may be retried; the conditional write guarantees a retry after
	// a genuine success reports ErrAlreadyRedeemed instead of double-claiming.
	ErrClaimFailed = errors.New("gift code claim failed")
)
