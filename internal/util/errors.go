package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrSkillNotFound    = errors.New("skill not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrSessionNotFound  = errors.New("practice session not found")
	ErrItemNotFound     = errors.New("repetition item not found")

	// 调用方契约错误：出现即表示上游代码有 bug，不做静默兜底。
	ErrSessionAlreadyCompleted = errors.New("practice session already completed")
	ErrScoreOutOfRange         = errors.New("session score must be between 0 and 100")
	ErrInvalidRating           = errors.New("performance rating must be between 0 and 5")
)
