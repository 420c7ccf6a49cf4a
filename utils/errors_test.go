package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAuthError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"invalid login", errors.New("400: Invalid login credentials"), ErrInvalidCredentials},
		{"already registered", errors.New("User already registered"), ErrAlreadyRegistered},
		{"already exists", errors.New("account already exists"), ErrAlreadyRegistered},
		{"email not confirmed", errors.New("Email not confirmed"), ErrEmailNotConfirmed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyAuthError(tt.in))
		})
	}

	t.Run("unmatched error is returned unchanged", func(t *testing.T) {
		t.Parallel()
		raw := errors.New("connection refused")
		assert.Same(t, raw, ClassifyAuthError(raw))
	})
}

func TestIsQuotaError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want bool
	}{
		{"nil", nil, false},
		{"http 429", errors.New("googleapi: Error 429: Resource has been exhausted"), true},
		{"quota keyword", errors.New("Quota exceeded for model"), true},
		{"grpc status", errors.New("rpc error: code = RESOURCE_EXHAUSTED desc = ..."), true},
		{"unrelated", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsQuotaError(tt.in))
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Email hoặc mật khẩu không chính xác", UserMessage(ErrInvalidCredentials))
	assert.Equal(t, "Email này đã được đăng ký", UserMessage(ErrAlreadyRegistered))
	assert.Equal(t, "Vui lòng kiểm tra email để xác nhận tài khoản trước khi đăng nhập.", UserMessage(ErrEmailNotConfirmed))
	assert.Equal(t, "Hệ thống đang quá tải, vui lòng thử lại sau.", UserMessage(ErrQuotaExceeded))
	assert.Equal(t, "", UserMessage(nil))

	// Wrapped domain errors still resolve to the localized message.
	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)
	assert.Equal(t, "Email hoặc mật khẩu không chính xác", UserMessage(wrapped))

	// Out-of-set errors keep their raw text.
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
