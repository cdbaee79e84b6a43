package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Tag registry
// @Tags tags
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Success 200 {array} service.TagCount
// @Router /tags [get]
func (s *Server) listTags(c *gin.Context) {
	tags, err := s.svc.Tags.Tags(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

type renameTagReq struct {
	NewName string `json:"new_name"`
}

// @Summary Rename or merge tag
// @Tags tags
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param name path string true "Current tag"
// @Param input body renameTagReq true "New name"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tags/{name} [put]
func (s *Server) renameTag(c *gin.Context) {
	var req renameTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	n, err := s.svc.Tags.RenameTag(c.Request.Context(), c.Param("name"), req.NewName)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products_affected": n})
}

// @Summary Delete tag from all products
// @Tags tags
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param name path string true "Tag"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]int
// @Failure 403 {object} map[string]string
// @Failure 428 {object} map[string]string
// @Router /tags/{name} [delete]
func (s *Server) deleteTag(c *gin.Context) {
	n, err := s.svc.Tags.DeleteTag(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products_affected": n})
}
