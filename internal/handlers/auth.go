package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"ignitia/internal/middleware"
	"ignitia/internal/models"
	"ignitia/internal/session"
	"ignitia/internal/store"
)

const (
	// totpIssuer labels the account in authenticator apps.
	totpIssuer = "Ignitia"
	// maxAuthBody bounds the auth request bodies.
	maxAuthBody = 16 << 10
)

// decoyUser holds a real bcrypt hash. Logins for unknown emails are
// checked against it so they take as long as logins for known ones.
var decoyUser = sync.OnceValue(func() *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("ignitia-decoy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic("handlers: bcrypt decoy hash: " + err.Error())
	}
	return &models.User{PasswordHash: string(hash)}
})

// Auth groups the authentication HTTP handlers.
type Auth struct {
	sessions  SessionManager
	userStore UserRepo
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions SessionManager, userStore UserRepo) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// authResponse is returned by signup and login. Token lets non-browser
// clients send the session as a bearer header.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Signup handles POST /auth/signup.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := decodeJSON(w, r, maxAuthBody, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid signup", "Request body must be JSON.")
		return
	}
	email := normalizeEmail(body.Email)
	fullName := plainText(body.FullName)
	if msg := validateSignup(email, body.Password, fullName); msg != "" {
		writeError(w, http.StatusBadRequest, "Invalid signup", msg)
		return
	}

	user, err := a.userStore.Create(email, body.Password, fullName)
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email already registered", "")
		return
	}
	if err != nil {
		slog.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account", "")
		return
	}
	slog.Info("user signed up", "user_id", user.ID)

	a.startSession(w, r, user)
}

// Login handles POST /auth/login. Users with two-factor authentication
// enabled must send a current TOTP code in the same request.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := decodeJSON(w, r, maxAuthBody, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid login", "Request body must be JSON.")
		return
	}

	user, err := a.userStore.FindByEmail(normalizeEmail(body.Email))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred", "")
		return
	}
	if user == nil {
		a.userStore.CheckPassword(decoyUser(), body.Password)
		writeError(w, http.StatusUnauthorized, "Invalid email or password", "")
		return
	}
	if !a.userStore.CheckPassword(user, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", "")
		return
	}

	if user.RequiresTOTP() {
		code := strings.TrimSpace(body.Code)
		if code == "" {
			writeError(w, http.StatusUnauthorized, "Two-factor code required", "totp_required")
			return
		}
		if !totp.Validate(code, *user.TOTPSecret) {
			writeError(w, http.StatusUnauthorized, "Invalid two-factor code", "")
			return
		}
	}

	a.startSession(w, r, user)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start session", "")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Logout handles POST /auth/logout. It always succeeds.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /auth/me.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// TwoFASetup handles POST /auth/2fa/setup. It stores a fresh secret and
// returns it with a QR code; the secret only takes effect after
// TwoFAEnable confirms a code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "Two-factor authentication is already enabled", "")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to set up two-factor authentication", "")
		return
	}

	if err := a.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to set up two-factor authentication", "")
		return
	}

	// QR code as base64-encoded PNG.
	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to set up two-factor authentication", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"qrCode": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAEnable handles POST /auth/2fa/enable.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, maxAuthBody, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid two-factor code", "")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "Two-factor setup has not been started", "")
		return
	}
	if !totp.Validate(strings.TrimSpace(body.Code), *user.TOTPSecret) {
		writeError(w, http.StatusBadRequest, "Invalid two-factor code", "")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to enable two-factor authentication", "")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// currentUser loads the session's account. A session whose user is gone
// is treated as no session.
func (a *Auth) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return nil, false
	}
	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred", "")
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return nil, false
	}
	return user, true
}
