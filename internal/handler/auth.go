package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/goalvoice/internal/ctxkeys"
	"github.com/templui/goalvoice/internal/repository"
	"github.com/templui/goalvoice/internal/response"
	"github.com/templui/goalvoice/internal/service"
	"github.com/templui/goalvoice/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeJSON[registerRequest](r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	account, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			response.Error(w, http.StatusBadRequest, "Email already exists")
			return
		}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.Invalid(w, "Validation failed", verrs)
			return
		}
		slog.Error("registration failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	token, err := h.authService.GenerateJWT(account.User)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", account.User.ID)
		response.Error(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	response.OK(w, http.StatusCreated, authResponse{User: toUserResponse(account), Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeJSON[loginRequest](r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	account, err := h.userService.Account(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load account", "error", err, "user_id", user.ID)
		response.Error(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		response.Error(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	response.OK(w, http.StatusOK, authResponse{User: toUserResponse(account), Token: token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	account, err := h.userService.Account(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("failed to load account", "error", err, "user_id", user.ID)
		response.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	response.OK(w, http.StatusOK, toUserResponse(account))
}

// writeRequestError answers a request body that failed to decode or validate.
func writeRequestError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.Invalid(w, "Validation failed", verrs)
		return
	}
	response.Error(w, http.StatusBadRequest, "Invalid JSON body")
}
