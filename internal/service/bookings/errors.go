package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrCannotCancel возвращается, когда бронирование нельзя отменить
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidStatusTransition возвращается, когда переход статуса
	// не разрешён машиной состояний
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
