package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

// UserResourceController serves one role-scoped slice of the users
// table (customers, employees or owners). The three surfaces share
// their mechanics; what may happen on each is decided entirely by the
// authorization engine, so the scoping rules live in one place.
type UserResourceController struct {
	DB       *gorm.DB
	role     string
	resource authz.Resource
}

func NewCustomerController(db *gorm.DB) *UserResourceController {
	return &UserResourceController{DB: db, role: models.RoleCustomer, resource: authz.ResourceCustomer}
}

func NewEmployeeController(db *gorm.DB) *UserResourceController {
	return &UserResourceController{DB: db, role: models.RoleEmployee, resource: authz.ResourceEmployee}
}

func NewOwnerController(db *gorm.DB) *UserResourceController {
	return &UserResourceController{DB: db, role: models.RoleOwner, resource: authz.ResourceOwner}
}

func (uc *UserResourceController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var users []models.User
	if err := uc.DB.Scopes(authz.Scope(actor, uc.resource)).Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of "+uc.role+"s", users)
}

func (uc *UserResourceController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var user models.User
	err := uc.DB.Scopes(authz.Scope(actor, uc.resource)).First(&user, c.Param("user_id")).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, uc.role))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detail of "+uc.role, user)
}

func (uc *UserResourceController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type request struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
		RestaurantID *uint  `json:"restaurant_id"`
		PhoneNumber  string `json:"phone_number"`
		Address      string `json:"address"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// The owning restaurant must exist and be resolvable before the
	// nested create is even considered.
	target := &authz.Target{RestaurantID: req.RestaurantID}
	if uc.role != models.RoleOwner {
		if req.RestaurantID == nil {
			utils.RespondAppError(c, utils.ErrValidation("a restaurant must be assigned for the role %s", uc.role))
			return
		}
		ownerID, found := restaurantOwner(uc.DB, *req.RestaurantID)
		if !found {
			utils.RespondAppError(c, utils.ErrValidation("invalid restaurant reference"))
			return
		}
		target.OwnerID = ownerID
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionCreate, uc.resource, target)) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         uc.role,
		RestaurantID: req.RestaurantID,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		if errors.Is(err, models.ErrRestaurantRequired) {
			utils.RespondAppError(c, utils.ErrValidation("%s", err.Error()))
			return
		}
		utils.RespondAppError(c, utils.DBError(err, uc.role))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Created "+uc.role, user)
}

func (uc *UserResourceController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// The decision is computed from the persisted row, not from
	// anything the client claims about it.
	var user models.User
	if err := uc.DB.Where("role = ?", uc.role).First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, uc.role))
		return
	}

	type request struct {
		Name         *string `json:"name"`
		Email        *string `json:"email"`
		Password     *string `json:"password"`
		Role         *string `json:"role"`
		RestaurantID *uint   `json:"restaurant_id"`
		PhoneNumber  *string `json:"phone_number"`
		Address      *string `json:"address"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role != nil && *req.Role != user.Role {
		utils.RespondAppError(c, utils.ErrForbidden("the role field cannot be changed through this surface"))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, uc.resource, userTarget(uc.DB, &user))) {
		return
	}

	// Moving the user to another restaurant is a second write target;
	// the actor must be allowed on the destination too.
	if req.RestaurantID != nil && (user.RestaurantID == nil || *req.RestaurantID != *user.RestaurantID) {
		ownerID, found := restaurantOwner(uc.DB, *req.RestaurantID)
		if !found {
			utils.RespondAppError(c, utils.ErrValidation("invalid restaurant reference"))
			return
		}
		moved := &authz.Target{ID: user.ID, RestaurantID: req.RestaurantID, OwnerID: ownerID}
		if !respondDecision(c, authz.Can(actor, authz.ActionUpdate, uc.resource, moved)) {
			return
		}
		user.RestaurantID = req.RestaurantID
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		user.Password = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		if errors.Is(err, models.ErrRestaurantRequired) {
			utils.RespondAppError(c, utils.ErrValidation("%s", err.Error()))
			return
		}
		utils.RespondAppError(c, utils.DBError(err, uc.role))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Updated "+uc.role, user)
}

func (uc *UserResourceController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var user models.User
	if err := uc.DB.Where("role = ?", uc.role).First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondAppError(c, utils.DBError(err, uc.role))
		return
	}

	if !respondDecision(c, authz.Can(actor, authz.ActionDelete, uc.resource, userTarget(uc.DB, &user))) {
		return
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Deleted "+uc.role, nil)
}
