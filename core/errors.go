package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	MarketErrorNotFound              = "MARKET_NOT_FOUND"
	MarketErrorUnauthorized          = "MARKET_UNAUTHORIZED"
	MarketErrorForbidden             = "MARKET_FORBIDDEN"
	MarketErrorBadRequest            = "MARKET_BAD_REQUEST"
	MarketErrorInvalidWasteStatus    = "MARKET_INVALID_WASTE_STATUS"
	MarketErrorUnauthorizedWasteEdit = "MARKET_UNAUTHORIZED_WASTE_EDIT"
	MarketErrorInactiveUser          = "MARKET_INACTIVE_USER"
	MarketErrorRateLimited           = "MARKET_RATE_LIMITED"
	MarketErrorInternal              = "MARKET_INTERNAL_ERROR"
)

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRecordNotFound) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryNotFound
	}
	return false
}

func marketErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureMarketErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrRecordNotFound):
		return newMarketError(err.Error(), goerrors.CategoryNotFound, MarketErrorNotFound)
	case errors.Is(err, ErrInvalidWasteStatusTransition), errors.Is(err, ErrInvalidWasteStatus):
		return newMarketError(err.Error(), goerrors.CategoryConflict, MarketErrorInvalidWasteStatus)
	case errors.Is(err, ErrMemoCollision):
		return newMarketError(err.Error(), goerrors.CategoryConflict, MarketErrorBadRequest)
	case errors.Is(err, ErrPendingOrderNotLive):
		return newMarketError(err.Error(), goerrors.CategoryBadInput, MarketErrorBadRequest)
	case errors.Is(err, ErrTransferNotConfirmed):
		return newMarketError(err.Error(), goerrors.CategoryBadInput, MarketErrorBadRequest)
	case errors.Is(err, ErrInvalidRole):
		return newMarketError(err.Error(), goerrors.CategoryBadInput, MarketErrorBadRequest)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not registered"), strings.Contains(msg, "no account"):
		return newMarketError(err.Error(), goerrors.CategoryAuth, MarketErrorUnauthorized)
	case strings.Contains(msg, "inactive"):
		return newMarketError(err.Error(), goerrors.CategoryAuthz, MarketErrorInactiveUser)
	case strings.Contains(msg, "not permitted"), strings.Contains(msg, "forbidden"):
		return newMarketError(err.Error(), goerrors.CategoryAuthz, MarketErrorForbidden)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "mismatch"):
		return newMarketError(err.Error(), goerrors.CategoryBadInput, MarketErrorBadRequest)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureMarketErrorEnvelope(mapped)
}

func newMarketError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureMarketErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureMarketErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = marketHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultMarketTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultMarketTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return MarketErrorBadRequest
	case goerrors.CategoryNotFound:
		return MarketErrorNotFound
	case goerrors.CategoryAuth:
		return MarketErrorUnauthorized
	case goerrors.CategoryAuthz:
		return MarketErrorForbidden
	case goerrors.CategoryConflict:
		return MarketErrorInvalidWasteStatus
	case goerrors.CategoryRateLimit:
		return MarketErrorRateLimited
	default:
		return MarketErrorInternal
	}
}

func marketHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
