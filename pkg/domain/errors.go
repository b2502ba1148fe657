package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("gigachat credentials are not configured")
	ErrTokenRequestFailed = errors.New("gigachat token request failed")
	ErrUnexpectedResponse = errors.New("unexpected response format")
	ErrImageRender        = errors.New("image rendering failed")
	ErrInputTooLong       = errors.New("input too long")
)
