package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vedashop/internal/domain"
	"vedashop/internal/service"
)

// @Summary List users
// @Tags users
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Success 200 {array} domain.User
// @Router /users [get]
func (s *Server) listUsers(c *gin.Context) {
	list, err := s.svc.Users.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createUserReq struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
	Role  domain.Role `json:"role"`
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param input body createUserReq true "User"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /users [post]
func (s *Server) createUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.svc.Users.CreateUser(c.Request.Context(), domain.User{Name: req.Name, Email: req.Email, Phone: req.Phone, Role: req.Role})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Change role or block flag
// @Tags users
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "User ID"
// @Param input body service.UserPatch true "Changes"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [patch]
func (s *Server) updateUser(c *gin.Context) {
	var req service.UserPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.svc.Users.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Delete user
// @Description Soft delete by default; hard=true removes the record and needs confirm=true
// @Tags users
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "User ID"
// @Param hard query bool false "Remove permanently"
// @Param confirm query bool false "Required with hard=true"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 428 {object} map[string]string
// @Router /users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	hard := c.Query("hard") == "true"
	if hard && c.Query("confirm") != "true" {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required: repeat with ?confirm=true"})
		return
	}
	if err := s.svc.Users.DeleteUser(c.Request.Context(), c.Param("id"), hard); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Permission matrix
// @Tags users
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Success 200 {array} auth.RoleDefinition
// @Router /roles [get]
func (s *Server) listRoles(c *gin.Context) {
	roles, err := s.svc.Users.Roles(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}
