package recordings

import "errors"

var (
	ErrNotFound        = errors.New("recordings: not found")
	ErrInvalidArgument = errors.New("recordings: invalid argument")
	ErrNoAudio         = errors.New("recordings: no audio object")
)
