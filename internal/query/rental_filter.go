package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vuminhhieu/rent-house/backend/internal/models"
)

// AreaTolerance is the band around a requested area: area=50 matches
// listings with area in [45, 55].
const AreaTolerance = 5.0

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// FieldError is a validation failure scoped to a single request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RentalPostFilter is the explicit filter specification built from the
// request once, then compiled onto a store query. Nil/empty fields are
// no-ops.
type RentalPostFilter struct {
	City     string
	District string
	Ward     string
	Address  string

	MinPrice  *float64
	MaxPrice  *float64
	Occupants *int
	Area      *float64

	Status string

	Page     int
	PageSize int
}

// ParseRentalPostFilter reads the recognized query parameters.
// Unrecognized parameters are ignored. Non-numeric numeric fields fail
// with a FieldError naming the offending field.
func ParseRentalPostFilter(c *gin.Context) (RentalPostFilter, error) {
	f := RentalPostFilter{
		City:     c.Query("city"),
		District: c.Query("district"),
		Ward:     c.Query("ward"),
		Address:  c.Query("address"),
		Status:   c.Query("status"),
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if v := c.Query("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, &FieldError{Field: "min_price", Message: "Invalid min_price, must be a number."}
		}
		f.MinPrice = &p
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, &FieldError{Field: "max_price", Message: "Invalid max_price, must be a number."}
		}
		f.MaxPrice = &p
	}
	if v := c.Query("occupants"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, &FieldError{Field: "occupants", Message: "Invalid occupants, must be a number."}
		}
		f.Occupants = &n
	}
	if v := c.Query("area"); v != "" {
		a, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, &FieldError{Field: "area", Message: "Invalid area, must be a number."}
		}
		f.Area = &a
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.PageSize = n
		}
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f, nil
}

// Viewer is the authenticated identity a listing query runs as. A nil
// viewer is an anonymous request.
type Viewer struct {
	ID   int
	Role string
}

// canFilterStatus reports whether an explicit status filter is honored
// for this viewer; for everyone else it is coerced to Allow.
func (v *Viewer) canFilterStatus() bool {
	return v != nil && (v.Role == models.RoleAdmin || v.Role == models.RoleLandlord)
}

// Apply compiles the filter onto db for a listing query, combining the
// visibility policy with the conjunctive field filters:
//   - only active posts, newest first;
//   - a landlord viewer is scoped to their own posts;
//   - an explicit status filter is honored only for admin/landlord
//     viewers, everyone else is coerced to Allow.
func (f RentalPostFilter) Apply(db *gorm.DB, viewer *Viewer) *gorm.DB {
	q := db.Model(&models.RentalPost{}).Where("is_active = ?", true)

	if viewer != nil && viewer.Role == models.RoleLandlord {
		q = q.Where("user_id = ?", viewer.ID)
	}

	if f.Status != "" && viewer.canFilterStatus() {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status = ?", models.StatusAllow)
	}

	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.District != "" {
		q = q.Where("district = ?", f.District)
	}
	if f.Ward != "" {
		q = q.Where("ward = ?", f.Ward)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Occupants != nil {
		q = q.Where("max_occupants = ? OR max_occupants IS NULL", *f.Occupants)
	}
	if f.Address != "" {
		q = q.Where("LOWER(detail_address) LIKE ?", "%"+strings.ToLower(f.Address)+"%")
	}
	if f.Area != nil {
		q = q.Where("area >= ? AND area <= ?", *f.Area-AreaTolerance, *f.Area+AreaTolerance)
	}

	return q.Order("created_at desc").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize)
}

