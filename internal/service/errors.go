package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrJobFinished       = errors.New("job already finished")
	ErrNoEquipmentTable  = errors.New("no equipment table loaded")
	ErrExportUnavailable = errors.New("export unavailable")
)
