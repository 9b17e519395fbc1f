package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("create_booking: shift not found")

	// ErrShiftClosed возвращается, когда смена закрыта для записи
	ErrShiftClosed = errors.New("create_booking: shift is closed for booking")

	// ErrSlotNotAvailable возвращается, когда слот занят или ремонт
	// не помещается в окно смены
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrUserNotFound возвращается, когда профиль пользователя не найден
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
