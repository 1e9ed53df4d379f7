package util

import "errors"

var (
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrInvalidTimeOfDay    = errors.New("notification time must be HH:MM in 24-hour format")
	ErrInvalidCalendarArgs = errors.New("year and month are required, month must be 1-12")
)
