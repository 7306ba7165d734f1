package entity

import "errors"

// Ошибки входных данных ядра анализа. Не повторяются: это ошибки вызывающей стороны.
var (
	ErrInvalidRegion       = errors.New("invalid region")
	ErrDimensionMismatch   = errors.New("dimension mismatch")
	ErrParameterOutOfRange = errors.New("parameter out of range")
)
