package get_available_dates

import "time"

// Request модель запроса на получение дат с открытыми сменами
type Request struct {
	WeeksAhead int // Горизонт в неделях; 0 означает значение по умолчанию
}

// Response модель ответа со списком дат
type Response struct {
	From  time.Time
	To    time.Time
	Dates []time.Time
}
