package hotel

import (
	"net/http"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "hotel not found")
	ErrNameRequired  = apperror.New(http.StatusBadRequest, "hotel name is required")
	ErrDuplicateName = apperror.New(http.StatusConflict, "hotel name already used")
)

type Hotel struct {
	ID        string
	Name      string
	Address   string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines options for listing hotels.
type Filter struct {
	Name     string
	Page     int
	PageSize int
}
