package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/controllers"
	"github.com/dinesync/resto-backend/models"
)

func menuRouter(db *gorm.DB, actorID uint) *gin.Engine {
	r := gin.New()
	r.Use(withActor(db, actorID))
	restaurantCtrl := controllers.NewRestaurantController(db)
	menuCtrl := controllers.NewMenuController(db)
	menuItemCtrl := controllers.NewMenuItemController(db)

	r.GET("/restaurants", restaurantCtrl.List)
	r.POST("/restaurants", restaurantCtrl.Create)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.Get)
	r.DELETE("/restaurants/:restaurant_id", restaurantCtrl.Delete)

	r.GET("/menus", menuCtrl.List)
	r.POST("/menus", menuCtrl.Create)
	r.GET("/menus/:menu_id", menuCtrl.Get)
	r.PATCH("/menus/:menu_id", menuCtrl.Update)
	r.DELETE("/menus/:menu_id", menuCtrl.Delete)

	r.GET("/menu-items", menuItemCtrl.List)
	r.POST("/menu-items", menuItemCtrl.Create)
	r.PATCH("/menu-items/:item_id", menuItemCtrl.Update)
	r.DELETE("/menu-items/:item_id", menuItemCtrl.Delete)
	return r
}

func TestOwnerBuildsMenuTree(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com", models.RoleOwner, nil)
	router := menuRouter(db, owner.ID)

	resp := performJSON(router, http.MethodPost, "/restaurants", gin.H{
		"name":    "Trattoria",
		"address": "5 Via Roma",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	restaurantID := uint(dataObject(t, resp)["id"].(float64))

	resp = performJSON(router, http.MethodPost, "/menus", gin.H{
		"restaurant_id": restaurantID,
		"name":          "Dinner",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	menuID := uint(dataObject(t, resp)["id"].(float64))

	resp = performJSON(router, http.MethodPost, "/menu-items", gin.H{
		"menu_id": menuID,
		"name":    "Carbonara",
		"price":   14.50,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, 14.50, dataObject(t, resp)["price"])

	resp = performJSON(router, http.MethodGet, fmt.Sprintf("/menus/%d", menuID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	items := dataObject(t, resp)["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestMenuItemPriceValidation(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	menu, item := createMenuWithItem(t, db, w.rest1.ID, 10.0)
	router := menuRouter(db, w.owner1.ID)

	resp := performJSON(router, http.MethodPost, "/menu-items", gin.H{
		"menu_id": menu.ID,
		"name":    "Freebie",
		"price":   -1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performJSON(router, http.MethodPatch, fmt.Sprintf("/menu-items/%d", item.ID), gin.H{
		"price": -5.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestForeignEmployeeCannotTouchMenus(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	menu, item := createMenuWithItem(t, db, w.rest1.ID, 10.0)
	router := menuRouter(db, w.employee2.ID)

	// The foreign menu is invisible, so the parent reference fails
	// validation rather than leaking its existence.
	resp := performJSON(router, http.MethodPost, "/menu-items", gin.H{
		"menu_id": menu.ID,
		"name":    "Intruder Special",
		"price":   1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = performJSON(router, http.MethodPatch, fmt.Sprintf("/menus/%d", menu.ID), gin.H{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performJSON(router, http.MethodPatch, fmt.Sprintf("/menu-items/%d", item.ID), gin.H{
		"price": 0.01,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performJSON(router, http.MethodGet, "/menus", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, dataList(t, resp))
}

func TestEmployeeEditsMenusOfOwnRestaurant(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	menu, item := createMenuWithItem(t, db, w.rest1.ID, 10.0)
	router := menuRouter(db, w.employee1.ID)

	resp := performJSON(router, http.MethodPatch, fmt.Sprintf("/menus/%d", menu.ID), gin.H{
		"name": "Lunch",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Lunch", dataObject(t, resp)["name"])

	resp = performJSON(router, http.MethodPatch, fmt.Sprintf("/menu-items/%d", item.ID), gin.H{
		"price": 12.0,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 12.0, dataObject(t, resp)["price"])
}

func TestCustomerReadsMenusOnly(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	menu, _ := createMenuWithItem(t, db, w.rest1.ID, 10.0)
	createMenuWithItem(t, db, w.rest2.ID, 20.0)
	router := menuRouter(db, w.customer1.ID)

	// Only the own restaurant's menu is listed.
	resp := performJSON(router, http.MethodGet, "/menus", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, dataList(t, resp), 1)

	resp = performJSON(router, http.MethodPatch, fmt.Sprintf("/menus/%d", menu.ID), gin.H{
		"name": "Graffiti",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performJSON(router, http.MethodPost, "/menu-items", gin.H{
		"menu_id": menu.ID,
		"name":    "Self Service",
		"price":   1.0,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestMenuCreateRejectsForgedRestaurantReference(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	router := menuRouter(db, w.owner1.ID)

	// A restaurant owned by someone else and a nonexistent one fail
	// identically.
	for _, restaurantID := range []uint{w.rest2.ID, 9999} {
		resp := performJSON(router, http.MethodPost, "/menus", gin.H{
			"restaurant_id": restaurantID,
			"name":          "Bogus",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	}
}

func TestRestaurantCreateValidatesOwnerReference(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", w.owner1.ID).Update("super_admin", true).Error)
	router := menuRouter(db, w.owner1.ID)

	// A nonexistent assignee and a non-owner account fail identically.
	for _, ownerID := range []uint{9999, w.customer1.ID} {
		resp := performJSON(router, http.MethodPost, "/restaurants", gin.H{
			"name":     "Orphaned",
			"address":  "9 Nowhere",
			"owner_id": ownerID,
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	}

	resp := performJSON(router, http.MethodPost, "/restaurants", gin.H{
		"name":     "Assigned",
		"address":  "9 Somewhere",
		"owner_id": w.owner2.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, float64(w.owner2.ID), dataObject(t, resp)["owner_id"])
}

func TestRestaurantDeleteCascadesMenus(t *testing.T) {
	db := setupTestDB(t)
	w := seedTwoRestaurants(t, db)
	menu, item := createMenuWithItem(t, db, w.rest1.ID, 10.0)
	router := menuRouter(db, w.owner1.ID)

	resp := performJSON(router, http.MethodDelete, fmt.Sprintf("/restaurants/%d", w.rest1.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var menuCount, itemCount int64
	require.NoError(t, db.Model(&models.Menu{}).Where("id = ?", menu.ID).Count(&menuCount).Error)
	require.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Count(&itemCount).Error)
	assert.Zero(t, menuCount)
	assert.Zero(t, itemCount)
}
