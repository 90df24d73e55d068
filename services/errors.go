package services

import "errors"

// ErrStore and ErrFilesystem tell a caller which side of an attachment
// operation failed. Both wrap the underlying cause.
var (
	ErrStore      = errors.New("store failure")
	ErrFilesystem = errors.New("filesystem failure")
)
