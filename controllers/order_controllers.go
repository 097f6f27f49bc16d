package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

func (oc *OrderController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var orders []models.Order
	if err := oc.DB.Scopes(authz.Scope(actor, authz.ResourceOrder)).Preload("Items").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var order models.Order
	err := oc.DB.Scopes(authz.Scope(actor, authz.ResourceOrder)).Preload("Items").First(&order, c.Param("order_id")).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// Create places an order for the acting customer. Item prices are
// snapshotted from the menu at this moment; later menu price changes
// never touch the persisted order. Order plus items commit in one
// transaction.
func (oc *OrderController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type itemReq struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,gt=0"`
	}
	type request struct {
		RestaurantID uint      `json:"restaurant_id" binding:"required"`
		Items        []itemReq `json:"items" binding:"required,min=1,dive"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID, found := restaurantOwner(oc.DB, req.RestaurantID)
	if !found {
		utils.RespondAppError(c, utils.ErrValidation("invalid restaurant reference"))
		return
	}

	// The customer field is forced to the actor; the engine then
	// requires the restaurant to match the actor's affiliation.
	target := &authz.Target{
		RestaurantID: &req.RestaurantID,
		OwnerID:      ownerID,
		CustomerID:   &actor.ID,
	}
	if !respondDecision(c, authz.Can(actor, authz.ActionCreate, authz.ResourceOrder, target)) {
		return
	}

	// Resolve every menu item through the actor's visibility scope;
	// a foreign or unknown item id is a validation failure, never a
	// silent skip.
	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		var menuItem models.MenuItem
		err := oc.DB.Scopes(authz.Scope(actor, authz.ResourceMenuItem)).First(&menuItem, it.MenuItemID).Error
		if err != nil {
			utils.RespondAppError(c, utils.ErrValidation("invalid menu item reference: %d", it.MenuItemID))
			return
		}
		total += menuItem.Price * float64(it.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   it.Quantity,
			Price:      menuItem.Price,
		})
	}

	order := models.Order{
		RestaurantID: req.RestaurantID,
		CustomerID:   actor.ID,
		Status:       models.OrderStatusPending,
		Total:        total,
		OrderDate:    time.Now(),
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order"))
		return
	}

	order.Items = items
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order"))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, authz.ResourceOrder, orderTarget(oc.DB, &order))) {
		return
	}

	type request struct {
		Status *string `json:"status"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Status != nil {
		if !models.ValidOrderStatus(*req.Status) {
			utils.RespondAppError(c, utils.ErrValidation("invalid order status: %s", *req.Status))
			return
		}
		order.Status = *req.Status
	}

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

func (oc *OrderController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order"))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionDelete, authz.ResourceOrder, orderTarget(oc.DB, &order))) {
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}
