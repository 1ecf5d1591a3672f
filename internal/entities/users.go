package entities

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	IsBanned   bool   `json:"is_banned"`
	DoctorType string `json:"doctor_type,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type CreateDoctorRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	DoctorType string `json:"doctor_type"`
}

type BanRequest struct {
	Banned bool `json:"banned"`
}

type DoctorResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	DoctorType string `json:"doctor_type,omitempty"`
}
