package users

import "errors"

var (
	ErrNotFound         = errors.New("users: not found")
	ErrInvalidArgument  = errors.New("users: invalid argument")
	ErrSelfModification = errors.New("users: cannot change own account")
)
