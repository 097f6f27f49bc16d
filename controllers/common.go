package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/middlewares"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

// currentActor pulls the authenticated actor from the request
// context. A missing or mistyped actor means the auth middleware did
// not run; the caller should respond 401.
func currentActor(c *gin.Context) (authz.Actor, bool) {
	v, exists := c.Get(middlewares.ActorKey)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok && actor.Authenticated
}

// requireActor responds 401 when no actor is present.
func requireActor(c *gin.Context) (authz.Actor, bool) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondAppError(c, utils.ErrUnauthenticated())
		return authz.Actor{}, false
	}
	return actor, true
}

// respondDecision surfaces an engine denial as 403 with its reason.
// Returns true when the action may proceed.
func respondDecision(c *gin.Context, d authz.Decision) bool {
	if d.Allow {
		return true
	}
	utils.RespondAppError(c, utils.ErrForbidden(d.Reason))
	return false
}

// restaurantOwner resolves the owner of a restaurant for building
// authorization targets. A missing restaurant yields a nil owner and
// found=false.
func restaurantOwner(db *gorm.DB, restaurantID uint) (ownerID *uint, found bool) {
	var restaurant models.Restaurant
	if err := db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, false
	}
	return restaurant.OwnerID, true
}

// userTarget builds the decision target for a persisted user row,
// resolving the owner of the user's affiliated restaurant.
func userTarget(db *gorm.DB, user *models.User) *authz.Target {
	target := &authz.Target{ID: user.ID, RestaurantID: user.RestaurantID}
	if user.RestaurantID != nil {
		target.OwnerID, _ = restaurantOwner(db, *user.RestaurantID)
	}
	return target
}

// menuTarget builds the decision target for a menu from its persisted
// restaurant, never from a request payload.
func menuTarget(db *gorm.DB, menu *models.Menu) *authz.Target {
	ownerID, _ := restaurantOwner(db, menu.RestaurantID)
	return &authz.Target{ID: menu.ID, RestaurantID: &menu.RestaurantID, OwnerID: ownerID}
}

// orderTarget builds the decision target for a persisted order.
func orderTarget(db *gorm.DB, order *models.Order) *authz.Target {
	ownerID, _ := restaurantOwner(db, order.RestaurantID)
	return &authz.Target{
		ID:           order.ID,
		RestaurantID: &order.RestaurantID,
		OwnerID:      ownerID,
		CustomerID:   &order.CustomerID,
	}
}
