package handler

// --- Requests ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response views ---

// userView is the default listing view: identity only, no balance.
type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// userDetailView adds the balance; returned for self and admin reads.
type userDetailView struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Balance int64  `json:"balance"`
}

// blockedUserView is returned by the block endpoints.
type blockedUserView struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Balance int64  `json:"balance"`
	Blocked bool   `json:"blocked"`
}

type authResponse struct {
	Token string   `json:"token,omitempty"`
	User  userView `json:"user"`
}
