package domain

import "errors"

var ErrNotFound = errors.New("not found")

// таксономия ошибок конвейера оценки
var (
	ErrImageLoad         = errors.New("image load failed")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrOracleParse       = errors.New("oracle response parse failed")
	ErrGenerationFailed  = errors.New("ad generation failed")
	ErrBrandNotFound     = errors.New("brand not found")
)

var (
	ErrEmptyBrandID   = errors.New("empty brand id")
	ErrEmptyBrandName = errors.New("empty brand name")
	ErrInvalidColor   = errors.New("invalid hex color")
	ErrDuplicateBrand = errors.New("brand already exists")
)

var (
	ErrEmptyPrompt          = errors.New("empty prompt")
	ErrInvalidThreshold     = errors.New("threshold must be within [0, 1]")
	ErrInvalidMaxIterations = errors.New("max iterations must be between 1 and 10")
	ErrInvalidMediaType     = errors.New("unsupported media type")
	ErrEmptyImagePath       = errors.New("empty image path")
)

var (
	ErrInvalidDecision  = errors.New("invalid approval decision")
	ErrEmptyCritiqueID  = errors.New("empty critique id")
	ErrApprovalNotFound = errors.New("approval not found")
)
