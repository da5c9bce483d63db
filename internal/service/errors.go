package service

import "errors"

var (
	ErrChatNotFound       = errors.New("chat not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoAlreadyExists = errors.New("video already imported")
	ErrNoVideos           = errors.New("chat has no associated videos")
)
