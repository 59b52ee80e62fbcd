package models

// TokenPair — пара токенов, которую выдаёт бэкенд при входе и при обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT, предъявляется в Authorization: Bearer;
//   - RefreshToken — долгоживущий секрет, предъявляется только эндпойнту
//     обновления для выпуска новой пары.
//
// Инвариант: пара сохраняется и заменяется только целиком — access без
// соответствующего refresh (и наоборот) в хранилище не живёт.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User — идентичность, извлечённая из payload access-токена.
// Источник истины — сам токен: User кэшируется только для отображения,
// решения об аутентификации принимаются по наличию/валидности токенов.
type User struct {
	// Username — claim "sub".
	Username string `json:"username"`
	// Roles — claim "roles"; пустой список, если claim отсутствует.
	Roles []string `json:"roles"`
	// Claims — остальные claims payload как есть (для UI, не для авторизации).
	Claims map[string]any `json:"claims,omitempty"`
}

// HasRole сообщает, содержит ли идентичность указанную роль.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest — тело POST /auth/refresh-token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// SessionResponse — текущее состояние сессии для UI-оболочки.
type SessionResponse struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	User            *User `json:"user,omitempty"`
}
