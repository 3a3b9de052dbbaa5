package user

import (
	"net/http"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

// User is an account able to call the API: a guest booking rooms, or staff
// (IsStaff) operating hotels and room states.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	IsStaff      bool
	CreatedAt    time.Time
}
