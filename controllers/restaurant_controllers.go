package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

func (rc *RestaurantController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var restaurants []models.Restaurant
	if err := rc.DB.Scopes(authz.Scope(actor, authz.ResourceRestaurant)).Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

func (rc *RestaurantController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	err := rc.DB.Scopes(authz.Scope(actor, authz.ResourceRestaurant)).First(&restaurant, c.Param("restaurant_id")).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "restaurant"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

func (rc *RestaurantController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type request struct {
		Name        string `json:"name" binding:"required"`
		Address     string `json:"address" binding:"required"`
		PhoneNumber string `json:"phone_number"`
		Description string `json:"description"`
		OwnerID     *uint  `json:"owner_id"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// A restaurant is created in the name of its creator; only a
	// superadmin may assign another owner, and the assignee must be an
	// existing owner account.
	ownerID := actor.ID
	if req.OwnerID != nil {
		var owner models.User
		if err := rc.DB.Where("role = ?", models.RoleOwner).First(&owner, *req.OwnerID).Error; err != nil {
			utils.RespondAppError(c, utils.ErrValidation("invalid owner reference"))
			return
		}
		ownerID = owner.ID
	}
	target := &authz.Target{OwnerID: &ownerID}
	if !respondDecision(c, authz.Can(actor, authz.ActionCreate, authz.ResourceRestaurant, target)) {
		return
	}

	restaurant := models.Restaurant{
		OwnerID:     &ownerID,
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "restaurant"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

func (rc *RestaurantController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "restaurant"))
		return
	}

	target := &authz.Target{ID: restaurant.ID, OwnerID: restaurant.OwnerID}
	if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, authz.ResourceRestaurant, target)) {
		return
	}

	type request struct {
		Name        *string `json:"name"`
		Address     *string `json:"address"`
		PhoneNumber *string `json:"phone_number"`
		Description *string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		restaurant.PhoneNumber = *req.PhoneNumber
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "restaurant"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

func (rc *RestaurantController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, "restaurant"))
		return
	}

	target := &authz.Target{ID: restaurant.ID, OwnerID: restaurant.OwnerID}
	if !respondDecision(c, authz.Can(actor, authz.ActionDelete, authz.ResourceRestaurant, target)) {
		return
	}

	// Menus and their items cascade with the restaurant, atomically.
	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id IN (SELECT id FROM menus WHERE restaurant_id = ?)", restaurant.ID).
			Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Menu{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", nil)
}
