package employee

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength     = 255
	maxPositionLength = 255
	minNameLength     = 3
	minSalary         = 0
)

type validatedFields struct {
	name     string
	position string
	salary   int64
}

// validateFields は入力値を正規化・検証します。
// 名前の最小文字数は基本ルールがすべて通った後にのみ確認します。
func validateFields(name, position, salary string) (validatedFields, error) {
	var (
		out  validatedFields
		verr ValidationError
	)

	out.name = strings.TrimSpace(name)
	validateRequiredString(&verr, FieldName, out.name, maxNameLength)

	out.position = strings.TrimSpace(position)
	validateRequiredString(&verr, FieldPosition, out.position, maxPositionLength)

	rawSalary := strings.TrimSpace(salary)
	switch {
	case rawSalary == "":
		verr.add(FieldSalary, CodeRequired, requiredMessage(FieldSalary))
	default:
		v, err := strconv.ParseInt(rawSalary, 10, 64)
		switch {
		case err != nil:
			verr.add(FieldSalary, CodeInteger, fmt.Sprintf("The %s must be an integer.", FieldSalary))
		case v < minSalary:
			verr.add(FieldSalary, CodeMin, fmt.Sprintf("The %s must be at least %d.", FieldSalary, minSalary))
		default:
			out.salary = v
		}
	}

	if len(verr.Errors) > 0 {
		return validatedFields{}, &verr
	}

	if utf8.RuneCountInString(out.name) < minNameLength {
		verr.add(FieldName, CodeTooShort, "Name is too short.")
		return validatedFields{}, &verr
	}

	return out, nil
}

func validateRequiredString(verr *ValidationError, field, value string, maxLen int) {
	if value == "" {
		verr.add(field, CodeRequired, requiredMessage(field))
		return
	}
	if utf8.RuneCountInString(value) > maxLen {
		verr.add(field, CodeMax, fmt.Sprintf("The %s may not be greater than %d characters.", field, maxLen))
	}
}

func requiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}
