package response

// APIResponseCode is the machine-readable result code of the generic envelope.
// Gift redemption outcomes get dedicated codes so the storefront can tell
// "already used" apart from "invalid code".
type APIResponseCode int

const (
	APIResponseCodeOK           APIResponseCode = 0
	APIResponseCodeBadRequest   APIResponseCode = 40000
	APIResponseCodeUnauthorized APIResponseCode = 40100
	APIResponseCodeError        APIResponseCode = 50000

	APIResponseCodeGiftInvalidCode      APIResponseCode = 42001
	APIResponseCodeGiftAlreadyRedeemed  APIResponseCode = 42002
	APIResponseCodeGiftExpired          APIResponseCode = 42003
	APIResponseCodeGiftPetCountMismatch APIResponseCode = 42004
	APIResponseCodeGiftRetryable        APIResponseCode = 42005
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:                   "ok",
	APIResponseCodeBadRequest:           "unexpected error",
	APIResponseCodeUnauthorized:         "unauthorized",
	APIResponseCodeGiftInvalidCode:      "gift code is invalid",
	APIResponseCodeGiftAlreadyRedeemed:  "gift code has already been used",
	APIResponseCodeGiftExpired:          "gift code has expired",
	APIResponseCodeGiftPetCountMismatch: "gift code does not cover this many pets",
	APIResponseCodeGiftRetryable:        "temporary error, please retry",
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}
