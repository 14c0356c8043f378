package employee

import (
	"errors"
	"strings"
)

var (
	ErrInvalidID           = errors.New("employee: invalid id")
	ErrInvalidSortField    = errors.New("employee: invalid sort field")
	ErrInvalidSortOrder    = errors.New("employee: invalid sort order")
	ErrValidation          = errors.New("employee: validation failed")
	ErrEmployeeNotFound    = errors.New("employee: not found")
	ErrConstraintViolation = errors.New("employee: constraint violation")
)

// 入力項目名です。
const (
	FieldName     = "name"
	FieldPosition = "position"
	FieldSalary   = "salary"
)

// 項目エラーの種別です。
const (
	CodeRequired = "required"
	CodeMax      = "max"
	CodeInteger  = "integer"
	CodeMin      = "min"
	CodeTooShort = "too_short"
)

// FieldError は単一の入力項目に紐づく検証エラーです。
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// ValidationError は 1 件以上の項目エラーをまとめたエラーです。
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is は errors.Is(err, ErrValidation) を成立させます。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field は指定項目のエラーを返します。
func (e *ValidationError) Field(field string) []FieldError {
	var out []FieldError
	for _, fe := range e.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// Has は指定項目・種別のエラーが含まれるかを返します。
func (e *ValidationError) Has(field, code string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field && fe.Code == code {
			return true
		}
	}
	return false
}

// Messages は項目ごとのメッセージ一覧を返します。
func (e *ValidationError) Messages() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

func (e *ValidationError) add(field, code, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Code: code, Message: message})
}
