package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func (mc *MenuController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var menus []models.Menu
	if err := mc.DB.Scopes(authz.Scope(actor, authz.ResourceMenu)).Preload("Items").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

func (mc *MenuController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var menu models.Menu
	err := mc.DB.Scopes(authz.Scope(actor, authz.ResourceMenu)).Preload("Items").First(&menu, c.Param("menu_id")).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

func (mc *MenuController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type request struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// The parent restaurant must exist and be visible to the actor; a
	// forged foreign restaurant id fails validation without revealing
	// whether it exists.
	var restaurant models.Restaurant
	err := mc.DB.Scopes(authz.Scope(actor, authz.ResourceRestaurant)).First(&restaurant, req.RestaurantID).Error
	if err != nil {
		utils.RespondAppError(c, utils.ErrValidation("invalid restaurant reference"))
		return
	}

	target := &authz.Target{RestaurantID: &restaurant.ID, OwnerID: restaurant.OwnerID}
	if !respondDecision(c, authz.Can(actor, authz.ActionCreate, authz.ResourceMenu, target)) {
		return
	}

	menu := models.Menu{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Description:  req.Description,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu"))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

func (mc *MenuController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Authorization is evaluated against the menu's persisted
	// restaurant; the request body cannot reparent a menu.
	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu"))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, authz.ResourceMenu, menuTarget(mc.DB, &menu))) {
		return
	}

	type request struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

func (mc *MenuController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "menu"))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionDelete, authz.ResourceMenu, menuTarget(mc.DB, &menu))) {
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&menu).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}
