package domain

// User es el lector registrado en el backend.
type User struct {
	ID               int64      `json:"userId"`
	PhoneNumber      string     `json:"phoneNumber"`
	UserName         string     `json:"userName"`
	PasswordHash     string     `json:"-"`
	RegistrationTime Timestamp  `json:"registrationTime"`
	LastLoginTime    *Timestamp `json:"lastLoginTime,omitempty"`
}

// LoginResult es el payload de POST /auth/login.
type LoginResult struct {
	Token         string     `json:"token"`
	UserID        int64      `json:"userId"`
	UserName      string     `json:"userName"`
	PhoneNumber   string     `json:"phoneNumber"`
	LastLoginTime *Timestamp `json:"lastLoginTime,omitempty"`
}

// RegisterResult es el payload de POST /auth/register. Token solo viene
// cuando el backend inicia sesion al registrar.
type RegisterResult struct {
	UserID           int64     `json:"userId"`
	UserName         string    `json:"userName"`
	PhoneNumber      string    `json:"phoneNumber"`
	RegistrationTime Timestamp `json:"registrationTime"`
	Token            string    `json:"token,omitempty"`
}
