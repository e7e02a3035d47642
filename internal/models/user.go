package models

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account stored in the users database.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Nick      string    `json:"nick" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=3,max=50"`
	Name      string    `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Surname   string    `json:"surname" gorm:"type:varchar(100)" validate:"max=100"`
	Gender    string    `json:"gender" gorm:"type:varchar(20)" validate:"max=20"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns a copy safe to send to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserUpdate carries the fields a PUT /users/{nick} may change. Nil means untouched.
type UserUpdate struct {
	Nick    *string `json:"nick" validate:"omitempty,min=3,max=50"`
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Surname *string `json:"surname" validate:"omitempty,max=100"`
	Gender  *string `json:"gender" validate:"omitempty,max=20"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// Empty reports whether no field was supplied.
func (u UserUpdate) Empty() bool {
	return u.Nick == nil && u.Name == nil && u.Surname == nil && u.Gender == nil && u.Email == nil
}

// PasswordChange is the body of PUT /users/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
