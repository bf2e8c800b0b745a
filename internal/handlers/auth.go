// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"notely/internal/apperr"
	"notely/internal/middleware"
	"notely/internal/models"
	"notely/internal/session"
	"notely/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "Notely"

// Auth groups registration, login, and TOTP two-factor handlers for local
// accounts. Provider-managed accounts never hit these; their lifecycle
// arrives via the webhook.
type Auth struct {
	users    *store.UserStore
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, sessions *session.Store) *Auth {
	return &Auth{users: users, sessions: sessions}
}

// registerRequest is the POST /api/auth/register payload.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register serves POST /api/auth/register. New accounts start as readers;
// the role can be raised later through the profile endpoint.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateName(req.Name); err != nil {
		writeError(w, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeError(w, err)
		return
	}

	existing, err := h.users.FindByEmail(req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeError(w, apperr.Conflict("An account with this email already exists"))
		return
	}

	user, err := h.users.Create(req.Email, req.Password, req.Name, models.RoleReader)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, sessionFor(user, true)); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

// loginRequest is the POST /api/auth/login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login serves POST /api/auth/login. Accounts with 2FA enabled receive a
// pending session and must verify a code before RequireAuth lets them
// through; the response flags this with requires2FA.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	// Same message whether the address or the password is wrong.
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, apperr.Unauthenticated("Invalid email or password"))
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, sessionFor(user, !user.TOTPEnabled)); err != nil {
		writeError(w, err)
		return
	}

	if user.TOTPEnabled {
		writeJSON(w, http.StatusOK, struct {
			Success     bool `json:"success"`
			Requires2FA bool `json:"requires2FA"`
		}{true, true})
		return
	}
	writeData(w, http.StatusOK, user)
}

// Logout serves POST /api/auth/logout.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

// Me serves GET /api/auth/me: the caller's account record.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())

	user, err := h.users.FindByID(caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User not found"))
		return
	}
	writeData(w, http.StatusOK, user)
}

// TwoFASetup serves POST /api/auth/2fa/setup. It generates a fresh TOTP
// secret and returns the otpauth URL plus a QR code PNG for authenticator
// apps. 2FA only becomes active after the first successful verify.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: caller.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.SetTOTPSecret(caller.UserID, key.Secret()); err != nil {
		writeError(w, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, struct {
		Secret     string `json:"secret"`
		OTPAuthURL string `json:"otpauthUrl"`
		QRCode     string `json:"qrCode"`
	}{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// verifyRequest is the POST /api/auth/2fa/verify payload.
type verifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify serves POST /api/auth/2fa/verify. It answers a pending login
// challenge, and doubles as the activation step after setup: the first
// valid code flips 2FA on for the account.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	user, err := h.users.FindByID(caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User not found"))
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, apperr.Validation("Two-factor authentication is not set up"))
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, apperr.Unauthenticated("Invalid verification code"))
		return
	}

	if !user.TOTPEnabled {
		if err := h.users.EnableTOTP(user.ID); err != nil {
			writeError(w, err)
			return
		}
		user.TOTPEnabled = true
	}

	caller.TwoFADone = true
	if err := h.sessions.Update(r.Context(), r, caller); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// sessionFor builds the session payload for a user.
func sessionFor(user *models.User, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		TwoFADone: twoFADone,
	}
}
