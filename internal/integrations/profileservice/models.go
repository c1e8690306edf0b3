package profileservice

// Profile профиль пользователя из сервиса профилей
type Profile struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	Village  *string `json:"village,omitempty"`
}
