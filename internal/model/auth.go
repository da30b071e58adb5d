package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OTPPurposeVerifyEmail = "verify_email"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type GoogleLoginRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// OTP is a pending one-time code. Only the bcrypt hash of the code is stored
// and the document is removed by a TTL index once ExpiresAt passes.
type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Email     string             `bson:"email"`
	Purpose   string             `bson:"purpose"`
	CodeHash  string             `bson:"code_hash"`
	Attempts  int                `bson:"attempts"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// GoogleUserInfo is the subset of the userinfo endpoint we read.
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
