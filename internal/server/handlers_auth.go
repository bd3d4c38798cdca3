package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/testserebro/crypto-tracker/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "cryptod"

	minPasswordLength = 8
)

// --- JWT helpers ---

// signToken creates a signed HMAC-SHA256 JWT for the given user.
func signToken(user *models.User, tokenType string, expiry time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":        uuid.New().String(),
		"sub":        strconv.FormatUint(user.ID, 10),
		"username":   user.Username,
		"token_type": tokenType,
		"iss":        tokenIssuer,
		"iat":        now.Unix(),
		"exp":        now.Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// issueTokenPair returns a new access and refresh token for the user.
func (s *Server) issueTokenPair(user *models.User) (access string, refresh string, err error) {
	cfg := &s.app.Config.Auth
	secret := []byte(cfg.JWTSecret)
	access, err = signToken(user, tokenTypeAccess, cfg.GetAccessTokenExpiry(), secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err = signToken(user, tokenTypeRefresh, cfg.GetRefreshTokenExpiry(), secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return access, refresh, nil
}

// --- Handlers ---

// handleAuthRegister handles POST /api/auth/register/.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var input models.RegisterInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	if verr := validateRegisterInput(&input); verr != nil {
		WriteJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}

	// bcrypt ignores input beyond 72 bytes, truncate explicitly
	passwordBytes := []byte(input.Password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hash),
	}

	if err := s.app.Storage.UserStore().CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			WriteJSON(w, http.StatusBadRequest, map[string][]string{
				"username": {"A user with that username already exists."},
			})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to create user")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue tokens")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"access":  access,
		"refresh": refresh,
	})
}

// handleAuthLogin handles POST /api/auth/login/.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &input) {
		return
	}
	if input.Username == "" || input.Password == "" {
		WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.app.Storage.UserStore().GetUserByUsername(r.Context(), input.Username)
	if err != nil {
		// Same response as a wrong password, no account probing
		WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	passwordBytes := []byte(input.Password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue tokens")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("User logged in")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"access":  access,
		"refresh": refresh,
	})
}

// handleAuthRefresh handles POST /api/auth/refresh/. It exchanges a valid
// refresh token for a fresh access token.
func (s *Server) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var input struct {
		Refresh string `json:"refresh"`
	}
	if !DecodeJSON(w, r, &input) {
		return
	}
	if input.Refresh == "" {
		WriteError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	cfg := &s.app.Config.Auth
	claims, err := validateJWT(input.Refresh, []byte(cfg.JWTSecret))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != tokenTypeRefresh {
		WriteError(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		WriteError(w, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	user, err := s.app.Storage.UserStore().GetUserByID(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "User not found")
		return
	}

	access, err := signToken(user, tokenTypeAccess, cfg.GetAccessTokenExpiry(), []byte(cfg.JWTSecret))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign access token")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"access": access})
}

// --- Validation ---

func validateRegisterInput(input *models.RegisterInput) *models.ValidationError {
	verr := &models.ValidationError{Fields: map[string][]string{}}

	if strings.TrimSpace(input.Username) == "" {
		verr.AddField("username", "This field is required.")
	}
	if strings.TrimSpace(input.Email) == "" {
		verr.AddField("email", "This field is required.")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		verr.AddField("email", "Enter a valid email address.")
	}
	if input.Password == "" {
		verr.AddField("password", "This field is required.")
	} else if len(input.Password) < minPasswordLength {
		verr.AddField("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if input.Password2 == "" {
		verr.AddField("password2", "This field is required.")
	}
	if input.Password != "" && input.Password2 != "" && input.Password != input.Password2 {
		verr.AddField("password", "Password fields didn't match.")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// handleAuthMe handles GET /api/auth/me/ and returns the caller's profile.
func (s *Server) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	user, err := s.app.Storage.UserStore().GetUserByID(r.Context(), uc.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
