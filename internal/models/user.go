package models

// User represents a registered user.
type User struct {
	ID    int64  `json:"userId" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// CreateUserRequest is the body of a user creation request.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest is a sparse patch of a user.
type UpdateUserRequest struct {
	ID    int64   `json:"userId" validate:"required"`
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// Apply copies the present fields of r onto u.
func (r UpdateUserRequest) Apply(u *User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
}
