package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktree-go/internal/auth"
	"go.uber.org/zap"
)

// AuthHandler handles user registration and login.
type AuthHandler struct {
	users  auth.Repository
	issuer *auth.TokenIssuer
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users auth.Repository, issuer *auth.TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := auth.ValidateRegistration(req.Body.Email, req.Body.Password); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	hash, err := auth.HashPassword(req.Body.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	user := &auth.User{
		Email:        req.Body.Email,
		PasswordHash: hash,
	}

	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return nil, huma.Error400BadRequest("User already exists")
		}

		h.logger.Error("failed to create user", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &RegisterResponse{}
	resp.Body.Message = "User registered successfully"

	return resp, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := auth.ValidateLogin(req.Body.Email, req.Body.Password); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	user, err := h.users.GetByEmail(ctx, req.Body.Email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, huma.Error401Unauthorized("Invalid credentials")
		}

		h.logger.Error("failed to look up user", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	if !auth.CheckPassword(user.PasswordHash, req.Body.Password) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &LoginResponse{}
	resp.Body.Message = "Login successful"
	resp.Body.Token = token
	resp.Body.User = UserInfo{ID: user.ID, Email: user.Email}

	return resp, nil
}
