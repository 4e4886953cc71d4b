package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/model"
)

// RequireRole enforces that the authenticated user has one of roles. It
// must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) == "" {
				return unauthorized(c, "authentication required")
			}
			if !allowed[Role(c)] {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// HotelAdminChecker answers whether a user administers a hotel.
type HotelAdminChecker interface {
	IsHotelAdmin(ctx context.Context, userID string, hotelID int64) (bool, error)
}

// RequireHotelOrSystemAdmin admits Administrators, and HotelAdmins linked
// to the hotel named by the :hotelId route parameter.
func RequireHotelOrSystemAdmin(checker HotelAdminChecker, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				return unauthorized(c, "authentication required")
			}
			switch Role(c) {
			case model.RoleAdministrator:
				return next(c)
			case model.RoleHotelAdmin:
			default:
				return deny(c, http.StatusForbidden, "forbidden")
			}

			hotelID, err := strconv.ParseInt(c.Param("hotelId"), 10, 64)
			if err != nil || hotelID < 1 {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			ok, err := checker.IsHotelAdmin(c.Request().Context(), uid, hotelID)
			if err != nil {
				log.Error("hotel admin check failed", zap.String("user_id", uid), zap.Int64("hotel_id", hotelID), zap.Error(err))
				return deny(c, http.StatusInternalServerError, "authorization check failed")
			}
			if !ok {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
