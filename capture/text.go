package capture

import "strings"

// NormalizeText 去掉首尾空白，空输入不允许提交
func NormalizeText(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", &InputValidationError{Field: "transcript", Reason: "must not be empty", Err: ErrEmptyInput}
	}
	return trimmed, nil
}
