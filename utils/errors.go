package utils

import (
	"errors"
	"strings"
)

// Domain error kinds. Provider errors are translated into this closed set at
// the boundary (auth handlers, AI client); everything downstream switches on
// errors.Is instead of matching provider error text.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrRateLimited        = errors.New("rate limited")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ClassifyAuthError maps an auth provider error onto a domain error kind by
// matching recognizable markers in its text. Unmatched errors are returned
// unchanged so the raw message still reaches the caller.
func ClassifyAuthError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return ErrInvalidCredentials
	case strings.Contains(msg, "already registered"), strings.Contains(msg, "already exists"):
		return ErrAlreadyRegistered
	case strings.Contains(msg, "not confirmed"):
		return ErrEmailNotConfirmed
	}
	return err
}

// IsQuotaError reports whether a generative-AI error looks like quota
// exhaustion or rate limiting. The provider signals these inside the error
// text (HTTP 429, quota keywords), not as typed errors.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted")
}

// UserMessage returns the localized user-facing message for a domain error.
// Errors outside the closed set fall back to their raw message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Email hoặc mật khẩu không chính xác"
	case errors.Is(err, ErrAlreadyRegistered):
		return "Email này đã được đăng ký"
	case errors.Is(err, ErrEmailNotConfirmed):
		return "Vui lòng kiểm tra email để xác nhận tài khoản trước khi đăng nhập."
	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrRateLimited):
		return "Hệ thống đang quá tải, vui lòng thử lại sau."
	case errors.Is(err, ErrUnauthorized):
		return "Bạn không có quyền thực hiện thao tác này."
	case err == nil:
		return ""
	}
	return err.Error()
}
