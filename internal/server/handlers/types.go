package handlers

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"github.com/vladimiradmaev/diatrack/internal/interfaces"
)

// UserIDKey is the gin context key the auth middleware stores the
// authenticated user id under.
const UserIDKey = "userID"

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService    interfaces.UserServiceInterface
	ReadingService interfaces.ReadingServiceInterface
	RiskService    interfaces.RiskServiceInterface
	Tokens         interfaces.TokenIssuer
	Errors         *apperrors.Handler
}

// CurrentUserID returns the authenticated user id, or 0 when the request
// carries no identity.
func CurrentUserID(c *gin.Context) uint {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
