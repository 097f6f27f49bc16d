package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

type MenuItemController struct {
	DB *gorm.DB
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{DB: db}
}

// itemTarget resolves a menu item's decision target through its menu.
func (mic *MenuItemController) itemTarget(item *models.MenuItem) (*authz.Target, error) {
	var menu models.Menu
	if err := mic.DB.First(&menu, item.MenuID).Error; err != nil {
		return nil, err
	}
	target := menuTarget(mic.DB, &menu)
	target.ID = item.ID
	return target, nil
}

func (mic *MenuItemController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var items []models.MenuItem
	if err := mic.DB.Scopes(authz.Scope(actor, authz.ResourceMenuItem)).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mic *MenuItemController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var item models.MenuItem
	err := mic.DB.Scopes(authz.Scope(actor, authz.ResourceMenuItem)).First(&item, c.Param("item_id")).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu item"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

func (mic *MenuItemController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type request struct {
		MenuID      uint    `json:"menu_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"gte=0"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// The parent menu must be visible to the actor.
	var menu models.Menu
	if err := mic.DB.Scopes(authz.Scope(actor, authz.ResourceMenu)).First(&menu, req.MenuID).Error; err != nil {
		utils.RespondAppError(c, utils.ErrValidation("invalid menu reference"))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionCreate, authz.ResourceMenuItem, menuTarget(mic.DB, &menu))) {
		return
	}

	item := models.MenuItem{
		MenuID:      menu.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := mic.DB.Create(&item).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu item"))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mic *MenuItemController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := mic.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu item"))
		return
	}

	target, err := mic.itemTarget(&item)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, authz.ResourceMenuItem, target)) {
		return
	}

	type request struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Price != nil && *req.Price < 0 {
		utils.RespondAppError(c, utils.ErrValidation("price must not be negative"))
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	if err := mic.DB.Save(&item).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu item"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mic *MenuItemController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := mic.DB.First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu item"))
		return
	}

	target, err := mic.itemTarget(&item)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !respondDecision(c, authz.Can(actor, authz.ActionDelete, authz.ResourceMenuItem, target)) {
		return
	}

	if err := mic.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}
