package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vedashop/internal/audit"
)

// @Summary Audit log
// @Tags logs
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param severity query string false "INFO|WARNING|ERROR|CRITICAL|ALL"
// @Param search query string false "Substring of message, function, user or error code"
// @Success 200 {array} audit.Entry
// @Router /logs [get]
func (s *Server) listLogs(c *gin.Context) {
	f := audit.Filter{Search: c.Query("search")}
	if sev := strings.ToUpper(c.Query("severity")); sev != "" && sev != "ALL" {
		f.Severity = audit.Severity(sev)
		if !f.Severity.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid severity"})
			return
		}
	}
	logs, err := s.svc.Logs.Logs(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// @Summary Export audit log as CSV
// @Tags logs
// @Produce text/csv
// @Param X-User-ID header string true "Acting user"
// @Success 200 {string} string
// @Router /logs/export [get]
func (s *Server) exportLogs(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.svc.Logs.Export(c.Request.Context(), &buf); err != nil {
		abortWithError(c, err)
		return
	}
	name := fmt.Sprintf("system_logs_%s.csv", time.Now().UTC().Format(time.RFC3339))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// @Summary Clear audit log
// @Tags logs
// @Param X-User-ID header string true "Acting user"
// @Success 204
// @Router /logs [delete]
func (s *Server) clearLogs(c *gin.Context) {
	if err := s.svc.Logs.Clear(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
