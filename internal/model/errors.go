package model

import "errors"

var (
	ErrDuplicateCard = errors.New("duplicate card id in stack")
	ErrEmptyCardID   = errors.New("card id must not be empty")
)
