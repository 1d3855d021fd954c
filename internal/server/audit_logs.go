package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invomate/gstbill/internal/tenancy"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	companyID, err := tenancy.ActingCompany(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entries, err := s.auditSvc.List(c.Request.Context(), companyID, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
