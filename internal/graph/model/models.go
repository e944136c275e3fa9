package model

// User is the public projection of an account.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

type AuthPayload struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	User      *User  `json:"user"`
}
