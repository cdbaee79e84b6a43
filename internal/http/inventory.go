package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vedashop/internal/domain"
	"vedashop/internal/service"
)

// @Summary Inventory list
// @Tags inventory
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param q query string false "Name or SKU contains"
// @Param level query string false "all|low|out"
// @Success 200 {array} domain.Product
// @Router /inventory [get]
func (s *Server) listInventory(c *gin.Context) {
	level := domain.StockLevel(c.DefaultQuery("level", string(domain.StockLevelAll)))
	switch level {
	case domain.StockLevelAll, domain.StockLevelLow, domain.StockLevelOut:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level"})
		return
	}
	list, err := s.svc.Inventory.ListInventory(c.Request.Context(), service.InventoryFilter{Search: c.Query("q"), Level: level})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Adjust stock
// @Description add, remove or set stock with a mandatory reason
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Product ID"
// @Param input body domain.StockAdjustment true "Adjustment"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /inventory/{id}/adjust [post]
func (s *Server) adjustStock(c *gin.Context) {
	var req domain.StockAdjustment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.svc.Inventory.AdjustStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type reorderPointReq struct {
	ReorderPoint *int `json:"reorder_point"`
}

// @Summary Update reorder point
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Product ID"
// @Param input body reorderPointReq true "Threshold"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /inventory/{id}/reorder-point [patch]
func (s *Server) updateReorderPoint(c *gin.Context) {
	var req reorderPointReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ReorderPoint == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.svc.Inventory.UpdateReorderPoint(c.Request.Context(), c.Param("id"), *req.ReorderPoint)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Low stock check
// @Description Returns items at or below reorder level and notifies once per session
// @Tags inventory
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Success 200 {object} service.AlertReport
// @Router /inventory/alerts [get]
func (s *Server) checkAlerts(c *gin.Context) {
	report, err := s.svc.Alerts.Check(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Alert settings
// @Tags inventory
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Success 200 {object} domain.AlertConfig
// @Router /inventory/alerts/config [get]
func (s *Server) getAlertConfig(c *gin.Context) {
	cfg, err := s.svc.Alerts.Config(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary Save alert settings
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param input body domain.AlertConfig true "Settings"
// @Success 200 {object} domain.AlertConfig
// @Router /inventory/alerts/config [put]
func (s *Server) putAlertConfig(c *gin.Context) {
	var req domain.AlertConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cfg, err := s.svc.Alerts.SetConfig(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
