package delete_shift

import "context"

type ShiftService interface {
	Delete(ctx context.Context, shiftID int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
