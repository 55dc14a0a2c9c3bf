package model

import (
	"strings"
	"time"
)

// User is a portal account. Admins mark attendance; users are students.
type User struct {
	ID                 string     `json:"id"`
	Role               Role       `json:"role"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Department         string     `json:"department"`
	Phone              *string    `json:"phone,omitempty"`
	Address            *string    `json:"address,omitempty"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	ProfileImage       *string    `json:"profile_image,omitempty"`
	StudentNumber      *string    `json:"student_number,omitempty"`
	RegistrationNumber string     `json:"registration_number"`
	Year               *string    `json:"year,omitempty"`
	Section            *string    `json:"section,omitempty"`
	ACMMember          bool       `json:"acm_member"`
	ACMRole            *string    `json:"acm_role,omitempty"`
	IsActive           bool       `json:"is_active"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CreatedAt          time.Time  `json:"join_date"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// RegisterRequest is the payload for self-registration.
type RegisterRequest struct {
	FullName           string  `json:"full_name" binding:"required,notblank,min=2,max=100"`
	Email              string  `json:"email" binding:"required,email,max=255"`
	Password           string  `json:"password" binding:"required,min=6,max=128"`
	Department         string  `json:"department" binding:"required,notblank,max=100"`
	RegistrationNumber string  `json:"registration_number" binding:"required,notblank,max=50"`
	StudentNumber      *string `json:"student_number" binding:"omitempty,max=50"`
	Year               *string `json:"year" binding:"omitempty,max=20"`
	Section            *string `json:"section" binding:"omitempty,max=20"`
	ACMMember          bool    `json:"acm_member"`
	ACMRole            *string `json:"acm_role" binding:"omitempty,max=50"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// UpdateUserRequest is a partial profile update. Nil fields are left untouched.
// Role is only honoured for admin callers.
type UpdateUserRequest struct {
	FullName           *string    `json:"full_name" binding:"omitempty,notblank,min=2,max=100"`
	Email              *string    `json:"email" binding:"omitempty,email,max=255"`
	Department         *string    `json:"department" binding:"omitempty,max=100"`
	Phone              *string    `json:"phone" binding:"omitempty,max=30"`
	Address            *string    `json:"address" binding:"omitempty,max=255"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	ProfileImage       *string    `json:"profile_image" binding:"omitempty,max=512"`
	StudentNumber      *string    `json:"student_number" binding:"omitempty,max=50"`
	RegistrationNumber *string    `json:"registration_number" binding:"omitempty,max=50"`
	Year               *string    `json:"year" binding:"omitempty,max=20"`
	Section            *string    `json:"section" binding:"omitempty,max=20"`
	ACMMember          *bool      `json:"acm_member"`
	ACMRole            *string    `json:"acm_role" binding:"omitempty,max=50"`
	Role               *Role      `json:"role" binding:"omitempty,oneof=admin user"`
}

// Apply copies the set fields of req onto u.
func (req *UpdateUserRequest) Apply(u *User) {
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		u.Department = *req.Department
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Address != nil {
		u.Address = req.Address
	}
	if req.DateOfBirth != nil {
		u.DateOfBirth = req.DateOfBirth
	}
	if req.ProfileImage != nil {
		u.ProfileImage = req.ProfileImage
	}
	if req.StudentNumber != nil {
		u.StudentNumber = req.StudentNumber
	}
	if req.RegistrationNumber != nil {
		u.RegistrationNumber = *req.RegistrationNumber
	}
	if req.Year != nil {
		u.Year = req.Year
	}
	if req.Section != nil {
		u.Section = req.Section
	}
	if req.ACMMember != nil {
		u.ACMMember = *req.ACMMember
	}
	if req.ACMRole != nil {
		u.ACMRole = req.ACMRole
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
}
