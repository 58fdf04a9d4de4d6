package service

import "errors"

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrAnalysisRunning = errors.New("analysis already running")
	ErrProfileNotFound = errors.New("user profile not found")
	ErrOptionNotFound  = errors.New("product option not found")
	ErrInvalidInput    = errors.New("invalid input")
)
