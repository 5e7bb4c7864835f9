package apperr

import (
	"errors"
	"fmt"
)

// ビジネスエラーはこの閉じた集合だけ。
// repository層は存在しないことを repository.ErrNotFound で返し、
// usecase層がここで定義するエラーへ変換する。handlerがHTTPステータスへ写す。
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	// emailのユニーク制約に当たった
	ErrEmailTaken = errors.New("email already registered")

	// ログイン失敗（存在しない/パスワード不一致はまとめて同じ応答にする）
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// 入力不正。メッセージはそのままクライアントに返してよい。
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validation(msg string) error {
	return &ValidationError{msg: msg}
}

func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
