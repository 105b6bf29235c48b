package dto

import "time"

// LoginRequest is the JSON body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=128"`
	Password string `json:"password" form:"password" binding:"required,max=256"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token     string    `json:"token"`
	User      string    `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
