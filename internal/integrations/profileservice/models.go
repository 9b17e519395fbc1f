package profileservice

// Profile модель пользователя из ProfileService
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsMember bool   `json:"is_member"`
	Roles    Roles  `json:"roles"`
}

// Roles набор булевых предикатов ролей
type Roles struct {
	Mechanic bool `json:"mechanic"`
	Host     bool `json:"host"`
	Admin    bool `json:"admin"`
}

// IsStaff возвращает true для механиков, хостов и администраторов.
// Персонал может отменять любые бронирования и менять их статус.
func (p *Profile) IsStaff() bool {
	return p.Roles.Mechanic || p.Roles.Host || p.Roles.Admin
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
