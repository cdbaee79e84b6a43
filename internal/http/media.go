package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vedashop/internal/domain"
	"vedashop/internal/repository"
	"vedashop/internal/service"
)

// @Summary Media library
// @Tags media
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param status query string false "pending|approved|rejected"
// @Param type query string false "image|video|document"
// @Param uploaded_by query string false "Uploader id"
// @Param q query string false "Search in name, title, tags"
// @Success 200 {array} domain.MediaItem
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /media [get]
func (s *Server) listMedia(c *gin.Context) {
	f := repository.MediaFilter{
		UploadedBy: c.Query("uploaded_by"),
		Status:     domain.MediaStatus(c.Query("status")),
		Type:       domain.MediaType(c.Query("type")),
		Search:     c.Query("q"),
	}
	list, err := s.svc.Media.List(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Files uploaded by the current user
// @Tags media
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Success 200 {array} domain.MediaItem
// @Failure 401 {object} map[string]string
// @Router /media/mine [get]
func (s *Server) listMyMedia(c *gin.Context) {
	list, err := s.svc.Media.Mine(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Update media metadata
// @Tags media
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Media ID"
// @Param input body service.MediaMetadataPatch true "Fields to change"
// @Success 200 {object} domain.MediaItem
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /media/{id}/metadata [patch]
func (s *Server) updateMediaMetadata(c *gin.Context) {
	var patch service.MediaMetadataPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := s.svc.Media.UpdateMetadata(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type mediaStatusReq struct {
	Status domain.MediaStatus `json:"status"`
}

// @Summary Approve or reject media
// @Tags media
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Media ID"
// @Param input body mediaStatusReq true "New status"
// @Success 200 {object} domain.MediaItem
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /media/{id}/status [patch]
func (s *Server) updateMediaStatus(c *gin.Context) {
	var req mediaStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := s.svc.Media.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Delete media permanently
// @Tags media
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Media ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 428 {object} map[string]string
// @Router /media/{id} [delete]
func (s *Server) deleteMedia(c *gin.Context) {
	if err := s.svc.Media.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
