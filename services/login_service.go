package services

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/travel-boot/db"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginStore is the persistence LoginService needs.
type LoginStore interface {
	FindByEmail(ctx context.Context, email string) (*db.LoginModel, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, login db.LoginModel) error
}

type LoginService struct {
	store LoginStore
	auth  *Authenticator
}

func ProvideLoginService(store LoginStore, auth *Authenticator) *LoginService {
	return &LoginService{
		store: store,
		auth:  auth,
	}
}

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Jwt     string `json:"jwt"`
}

func (s *LoginService) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "A valid email and password are required")
		return
	}

	isExists, err := s.store.Exists(r.Context(), email)
	if err != nil {
		logger.Error("Error checking user existence", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Error registering user")
		return
	}
	if isExists {
		writeMessage(w, http.StatusBadRequest, "Email already exists")
		return
	}

	loginModel := db.LoginModel{EmailId: email, Username: strings.TrimSpace(req.Username), CreatedOn: time.Now().Unix()}
	loginModel.HashedPassword, err = hashPassword(req.Password)
	if err != nil {
		logger.Error("Error hashing password", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Error registering user")
		return
	}
	loginModel.UserId = loginModel.Id()

	if err := s.store.Create(r.Context(), loginModel); err != nil {
		logger.Error("Error saving user", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	s.respondWithToken(w, http.StatusCreated, "User registered successfully", loginModel.UserId)
}

func (s *LoginService) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loginInfo, err := s.store.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		logger.Error("Error finding user", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	if loginInfo == nil {
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(loginInfo.HashedPassword), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	s.respondWithToken(w, http.StatusOK, "Login successful", loginInfo.Id())
}

func (s *LoginService) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *LoginService) respondWithToken(w http.ResponseWriter, status int, message, userID string) {
	jwtToken, err := s.auth.Issue(userID)
	if err != nil {
		logger.Error("Error generating JWT token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	s.auth.setCookie(w, jwtToken)
	writeJSON(w, status, AuthResponse{Message: message, UserID: userID, Jwt: jwtToken})
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}
