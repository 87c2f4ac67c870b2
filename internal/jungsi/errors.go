package jungsi

import "errors"

// 조회 실패는 0점으로 대체하지 않고 그대로 전파한다
var (
	ErrUnknownInstitution = errors.New("unknown institution")
	ErrUnknownSubject     = errors.New("unknown subject")
	ErrMissingScore       = errors.New("subject score missing")
	ErrUnknownFormula     = errors.New("unknown formula code")
)
