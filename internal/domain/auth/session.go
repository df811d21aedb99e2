package auth

// LoginRequest is the sign-in body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload carries the issued token and the authenticated user.
// Either may be absent in a malformed response.
type LoginPayload struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// LoginResponse is the full sign-in response envelope.
type LoginResponse struct {
	Message string       `json:"message,omitempty"`
	Payload LoginPayload `json:"payload"`
}

// MePayload wraps the user returned by the "who am I" endpoint.
type MePayload struct {
	User *User `json:"user,omitempty"`
}

// MeResponse is the "who am I" response envelope.
type MeResponse struct {
	Message string    `json:"message,omitempty"`
	Payload MePayload `json:"payload"`
}
