package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invomate/gstbill/internal/companyctx"
)

const HeaderAPIKey = "X-API-Key"

// APIKeyRequired authenticates the request's API key and injects the acting
// company into the request context. Every scoped route sits behind it.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAPIKey))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		companyID, err := s.apiKeySvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), companyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
