package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess = "access"
	otpLength       = 6
	maxOTPAttempts  = 5

	msgInvalidCode = "invalid verification code"
	msgExpiredCode = "verification code has expired, request a new one"
)

type TokenClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	Exp    int64  `json:"exp"`
}

func (api *API) createToken(id string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(api.Config.TokenTTL())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"typ": tokenTypeAccess,
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// authCookie builds the session cookie. Browsers only accept SameSite=None
// on secure cookies, so development falls back to Lax over plain HTTP.
func (api *API) authCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     values.AuthCookieName,
		Value:    value,
		Path:     "/",
		Domain:   api.Config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if api.Config.IsDevelopment() {
		c.Secure = false
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

func (api *API) setSession(w http.ResponseWriter, user model.User) (model.LoginResponse, error) {
	token, _, err := api.createToken(user.ID.Hex())
	if err != nil {
		return model.LoginResponse{}, err
	}
	http.SetCookie(w, api.authCookie(token, int(api.Config.TokenTTL().Seconds())))
	return model.LoginResponse{User: &user, Token: token}, nil
}

// checkOTP reports whether code matches otp. On failure it returns the
// status and message to send back.
func checkOTP(otp model.OTP, code string, now time.Time) (bool, string, string) {
	if !now.Before(otp.ExpiresAt) {
		return false, values.BadRequestBody, msgExpiredCode
	}
	if otp.Attempts >= maxOTPAttempts {
		return false, values.TooManyRequest, "too many attempts, request a new code"
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		return false, values.BadRequestBody, msgInvalidCode
	}
	return true, values.Success, ""
}

// issueOTP stores a fresh code for user and mails it in the background.
func (api *API) issueOTP(ctx context.Context, user model.User) error {
	code := util.GenerateNumericCode(otpLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = api.StoreOTP(ctx, model.OTP{
		UserID:    user.ID,
		Email:     user.Email,
		Purpose:   model.OTPPurposeVerifyEmail,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(api.Config.OTPExpiry),
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	if api.Config.IsDevelopment() {
		api.logger().Debug("verification code issued", zap.String("email", user.Email), zap.String("code", code))
	}

	go func() {
		emailData := map[string]interface{}{
			"Name":    user.Name,
			"Code":    code,
			"Minutes": int(api.Config.OTPExpiry.Minutes()),
		}
		if err := api.Deps.Mailer.Send(user.Email, emailData, "verifyEmail.tmpl"); err != nil {
			api.logger().Error("failed to send verification email", zap.String("email", user.Email), zap.Error(err))
		}
	}()
	return nil
}

func (api *API) RegisterHelper(ctx context.Context, req model.RegisterRequest) (model.User, string, string, error) {
	email := util.NormalizeEmail(req.Email)

	_, err := api.GetUserByEmail(ctx, email)
	if err == nil {
		return model.User{}, values.Conflict, "Email already exists", nil
	}
	if !errors.Is(err, errNotFound) {
		return model.User{}, values.Error, "Error checking email", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, values.Error, values.SystemErr, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: model.AuthProviderEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := api.CreateUserRepo(ctx, &user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, values.Conflict, "Email already exists", nil
		}
		return model.User{}, values.Error, "Error creating new user", err
	}

	if err := api.issueOTP(ctx, user); err != nil {
		return model.User{}, values.Error, "Failed to store verification code", err
	}

	return user, values.Created, "Account created, check your email for the verification code", nil
}

func (api *API) VerifyEmailHelper(ctx context.Context, w http.ResponseWriter, req model.VerifyCodeRequest) (model.LoginResponse, string, string, error) {
	email := util.NormalizeEmail(req.Email)

	user, err := api.GetUserByEmail(ctx, email)
	if errors.Is(err, errNotFound) {
		return model.LoginResponse{}, values.NotFound, "User not found", nil
	}
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	if user.IsVerified {
		return model.LoginResponse{}, values.Conflict, "Email is already verified", nil
	}

	otp, err := api.GetOTP(ctx, email, model.OTPPurposeVerifyEmail)
	if errors.Is(err, errNotFound) {
		return model.LoginResponse{}, values.BadRequestBody, msgExpiredCode, nil
	}
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	ok, status, message := checkOTP(otp, req.Code, time.Now())
	if !ok {
		if message == msgInvalidCode {
			if err := api.IncrementOTPAttempts(ctx, otp.ID); err != nil {
				return model.LoginResponse{}, values.Error, values.SystemErr, err
			}
		}
		return model.LoginResponse{}, status, message, nil
	}

	if err := api.DeleteOTP(ctx, otp.ID); err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	user, err = api.UpdateUserRepo(ctx, user.ID, bson.M{"is_verified": true})
	if err != nil {
		return model.LoginResponse{}, values.Error, "Failed to update email verification status", err
	}

	resp, err := api.setSession(w, user)
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	return resp, values.Success, "Email verified", nil
}

func (api *API) ResendVerificationHelper(ctx context.Context, req model.ResendCodeRequest) (string, string, error) {
	user, err := api.GetUserByEmail(ctx, util.NormalizeEmail(req.Email))
	if errors.Is(err, errNotFound) {
		return values.NotFound, "User not found", nil
	}
	if err != nil {
		return values.Error, values.SystemErr, err
	}
	if user.IsVerified {
		return values.Conflict, "Email is already verified", nil
	}

	if err := api.issueOTP(ctx, user); err != nil {
		return values.Error, "Failed to store verification code", err
	}
	return values.Success, "Verification code sent", nil
}

func (api *API) LoginHelper(ctx context.Context, w http.ResponseWriter, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	user, err := api.GetUserByEmail(ctx, util.NormalizeEmail(req.Email))
	if errors.Is(err, errNotFound) {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", nil
	}
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", nil
	}
	if !user.IsVerified {
		return model.LoginResponse{}, values.NotAllowed, "Please verify your email before logging in", nil
	}

	resp, err := api.setSession(w, user)
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	return resp, values.Success, "Login successful", nil
}

// GoogleLoginHelper signs in with a Google access token, creating the
// account on first use.
func (api *API) GoogleLoginHelper(ctx context.Context, w http.ResponseWriter, req model.GoogleLoginRequest) (model.LoginResponse, string, string, error) {
	info, err := api.Deps.GoogleAuth.UserInfo(ctx, req.AccessToken)
	if err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Google sign-in failed", err
	}
	if !info.EmailVerified {
		return model.LoginResponse{}, values.NotAllowed, "Google account email is not verified", nil
	}

	email := util.NormalizeEmail(info.Email)
	user, err := api.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, errNotFound):
		now := time.Now().UTC()
		user = model.User{
			ID:             primitive.NewObjectID(),
			Name:           info.Name,
			Email:          email,
			AuthProvider:   model.AuthProviderGoogle,
			IsVerified:     true,
			ProfilePicture: info.Picture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := api.CreateUserRepo(ctx, &user); err != nil {
			return model.LoginResponse{}, values.Error, "failed to create new user", err
		}
	case err != nil:
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	case !user.IsVerified:
		user, err = api.UpdateUserRepo(ctx, user.ID, bson.M{"is_verified": true})
		if err != nil {
			return model.LoginResponse{}, values.Error, values.SystemErr, err
		}
	}

	resp, err := api.setSession(w, user)
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	return resp, values.Success, "Login successful", nil
}
