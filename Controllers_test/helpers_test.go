package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/middlewares"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	// A named shared-cache DSN keeps every pooled connection on the
	// same in-memory database, one database per test.
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.Menu{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	))
	return db
}

// withActor loads the user row and injects the actor the way the auth
// middleware does after validating a token.
func withActor(db *gorm.DB, userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, userID).Error; err == nil {
			c.Set(middlewares.ActorKey, authz.Actor{
				ID:            user.ID,
				Role:          authz.Role(user.Role),
				RestaurantID:  user.RestaurantID,
				SuperAdmin:    user.SuperAdmin,
				Authenticated: true,
			})
		}
		c.Next()
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string, restaurantID *uint) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        email,
		Password:     mustHash(t, "password123"),
		Role:         role,
		RestaurantID: restaurantID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createRestaurant(t *testing.T, db *gorm.DB, ownerID uint, name string) models.Restaurant {
	t.Helper()
	restaurant := models.Restaurant{OwnerID: &ownerID, Name: name, Address: "1 Test St"}
	require.NoError(t, db.Create(&restaurant).Error)
	return restaurant
}

func createMenuWithItem(t *testing.T, db *gorm.DB, restaurantID uint, itemPrice float64) (models.Menu, models.MenuItem) {
	t.Helper()
	menu := models.Menu{RestaurantID: restaurantID, Name: "Mains"}
	require.NoError(t, db.Create(&menu).Error)
	item := models.MenuItem{MenuID: menu.ID, Name: "Dish", Price: itemPrice}
	require.NoError(t, db.Create(&item).Error)
	return menu, item
}

// twoRestaurants is the shared tenant fixture: two restaurants with
// their own owner, employee and customer.
type twoRestaurants struct {
	owner1, owner2       models.User
	employee1, employee2 models.User
	customer1, customer2 models.User
	rest1, rest2         models.Restaurant
}

func seedTwoRestaurants(t *testing.T, db *gorm.DB) twoRestaurants {
	t.Helper()
	var w twoRestaurants
	w.owner1 = createUser(t, db, "Owner One", "o1@example.com", models.RoleOwner, nil)
	w.owner2 = createUser(t, db, "Owner Two", "o2@example.com", models.RoleOwner, nil)
	w.rest1 = createRestaurant(t, db, w.owner1.ID, "One")
	w.rest2 = createRestaurant(t, db, w.owner2.ID, "Two")
	w.employee1 = createUser(t, db, "Emp One", "e1@example.com", models.RoleEmployee, &w.rest1.ID)
	w.employee2 = createUser(t, db, "Emp Two", "e2@example.com", models.RoleEmployee, &w.rest2.ID)
	w.customer1 = createUser(t, db, "Cust One", "c1@example.com", models.RoleCustomer, &w.rest1.ID)
	w.customer2 = createUser(t, db, "Cust Two", "c2@example.com", models.RoleCustomer, &w.rest2.ID)
	return w
}

func performJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok, "response carries no data object: %s", w.Body.String())
	return data
}

func dataList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	resp := decodeBody(t, w)
	if resp["data"] == nil {
		return nil
	}
	list, ok := resp["data"].([]interface{})
	require.True(t, ok, "response carries no data list: %s", w.Body.String())
	return list
}
