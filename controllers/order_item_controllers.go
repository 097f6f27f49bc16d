package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

// OrderItemController manages items of already-placed orders. Items
// are created only together with their order; this surface covers
// reads, staff quantity corrections and owner removals.
type OrderItemController struct {
	DB *gorm.DB
}

func NewOrderItemController(db *gorm.DB) *OrderItemController {
	return &OrderItemController{DB: db}
}

func (oic *OrderItemController) itemTarget(item *models.OrderItem) (*authz.Target, error) {
	var order models.Order
	if err := oic.DB.First(&order, item.OrderID).Error; err != nil {
		return nil, err
	}
	target := orderTarget(oic.DB, &order)
	target.ID = item.ID
	return target, nil
}

func (oic *OrderItemController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var items []models.OrderItem
	if err := oic.DB.Scopes(authz.Scope(actor, authz.ResourceOrderItem)).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order items", items)
}

func (oic *OrderItemController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var item models.OrderItem
	err := oic.DB.Scopes(authz.Scope(actor, authz.ResourceOrderItem)).First(&item, c.Param("item_id")).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order item"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item detail", item)
}

// Update changes an item's quantity. The order total is recomputed
// from the snapshot prices already on the order's items, never from
// current menu prices.
func (oic *OrderItemController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var item models.OrderItem
	if err := oic.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order item"))
		return
	}

	target, err := oic.itemTarget(&item)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, authz.ResourceOrderItem, target)) {
		return
	}

	type request struct {
		Quantity int `json:"quantity" binding:"required,gt=0"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err = oic.DB.Transaction(func(tx *gorm.DB) error {
		item.Quantity = req.Quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return recomputeOrderTotal(tx, item.OrderID)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item updated", item)
}

func (oic *OrderItemController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var item models.OrderItem
	if err := oic.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order item"))
		return
	}

	target, err := oic.itemTarget(&item)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !respondDecision(c, authz.Can(actor, authz.ActionDelete, authz.ResourceOrderItem, target)) {
		return
	}

	err = oic.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return recomputeOrderTotal(tx, item.OrderID)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item deleted", nil)
}

// recomputeOrderTotal sums quantity × snapshot price over the order's
// remaining items.
func recomputeOrderTotal(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total", total).Error
}
