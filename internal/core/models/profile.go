package models

// Role is the fixed lowercase enumeration the backend stores. Display code
// title-cases it; storage never does.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// ProfileRecord — карточка пользователя. Year заполняется только для
// студентов; для преподавателей поле опускается целиком.
type ProfileRecord struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Year       string `json:"year,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}
