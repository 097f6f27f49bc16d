package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

// Fixture actors: restaurant 1 is owned by owner 10; restaurant 2 by
// owner 20.
var (
	ownerR1    = Actor{ID: 10, Role: RoleOwner, Authenticated: true}
	employeeR1 = Actor{ID: 11, Role: RoleEmployee, RestaurantID: uintPtr(1), Authenticated: true}
	customerR1 = Actor{ID: 12, Role: RoleCustomer, RestaurantID: uintPtr(1), Authenticated: true}
	employeeR2 = Actor{ID: 21, Role: RoleEmployee, RestaurantID: uintPtr(2), Authenticated: true}
	superAdmin = Actor{ID: 99, Role: RoleOwner, SuperAdmin: true, Authenticated: true}
	anonymous  = Actor{}
)

func menuInR1() *Target {
	return &Target{ID: 5, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}
}

func TestCanDeniesAnonymous(t *testing.T) {
	for _, resource := range []Resource{
		ResourceCustomer, ResourceEmployee, ResourceOwner, ResourceRestaurant,
		ResourceMenu, ResourceMenuItem, ResourceOrder, ResourceOrderItem, ResourcePayment,
	} {
		d := Can(anonymous, ActionRead, resource, &Target{ID: 1})
		assert.False(t, d.Allow, "anonymous read of %s must be denied", resource)
	}
}

func TestCanDefaultDeny(t *testing.T) {
	// An actor with a bogus role matches no clause.
	weird := Actor{ID: 1, Role: Role("ghost"), Authenticated: true}
	d := Can(weird, ActionRead, ResourceMenu, menuInR1())
	assert.False(t, d.Allow)
	assert.NotEmpty(t, d.Reason)
}

func TestCrossRestaurantAlwaysDenied(t *testing.T) {
	target := menuInR1()
	for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
		assert.False(t, Can(employeeR2, action, ResourceMenu, target).Allow,
			"employee of restaurant 2 must not %s a menu of restaurant 1", action)
		assert.False(t, Can(employeeR2, action, ResourceMenuItem, target).Allow)
	}

	order := &Target{ID: 7, RestaurantID: uintPtr(1), OwnerID: uintPtr(10), CustomerID: uintPtr(12)}
	assert.False(t, Can(employeeR2, ActionUpdate, ResourceOrder, order).Allow)

	// An owner who does not own the restaurant is just as foreign.
	foreignOwner := Actor{ID: 20, Role: RoleOwner, Authenticated: true}
	assert.False(t, Can(foreignOwner, ActionDelete, ResourceMenu, target).Allow)
}

func TestSuperAdminBypassesRestaurantScoping(t *testing.T) {
	assert.True(t, Can(superAdmin, ActionDelete, ResourceMenu, menuInR1()).Allow)
	assert.True(t, Can(superAdmin, ActionCreate, ResourceOwner, &Target{}).Allow)
	assert.True(t, Can(superAdmin, ActionDelete, ResourceOwner, &Target{ID: 10}).Allow)
}

func TestSelfDeleteForbiddenForEveryRole(t *testing.T) {
	assert.False(t, Can(customerR1, ActionDelete, ResourceCustomer, &Target{ID: customerR1.ID, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}).Allow)
	assert.False(t, Can(employeeR1, ActionDelete, ResourceEmployee, &Target{ID: employeeR1.ID, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}).Allow)
	assert.False(t, Can(ownerR1, ActionDelete, ResourceOwner, &Target{ID: ownerR1.ID}).Allow)
	assert.False(t, Can(superAdmin, ActionDelete, ResourceOwner, &Target{ID: superAdmin.ID}).Allow)
}

func TestCustomerUserRules(t *testing.T) {
	self := &Target{ID: customerR1.ID, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}
	other := &Target{ID: 50, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}

	assert.True(t, Can(customerR1, ActionRead, ResourceCustomer, self).Allow)
	assert.True(t, Can(customerR1, ActionUpdate, ResourceCustomer, self).Allow)
	assert.False(t, Can(customerR1, ActionRead, ResourceCustomer, other).Allow)
	assert.False(t, Can(customerR1, ActionCreate, ResourceCustomer, self).Allow,
		"customers create via the update-not-create path")

	// Employees and owners manage customers inside their restaurant.
	assert.True(t, Can(employeeR1, ActionCreate, ResourceCustomer, other).Allow)
	assert.True(t, Can(ownerR1, ActionUpdate, ResourceCustomer, other).Allow)
	assert.True(t, Can(ownerR1, ActionDelete, ResourceCustomer, other).Allow)
	assert.False(t, Can(employeeR1, ActionDelete, ResourceCustomer, other).Allow,
		"only owners delete customers")
	assert.False(t, Can(employeeR2, ActionCreate, ResourceCustomer, other).Allow)
}

func TestEmployeeUserRules(t *testing.T) {
	emp := &Target{ID: employeeR1.ID, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}

	assert.True(t, Can(employeeR1, ActionUpdate, ResourceEmployee, emp).Allow)
	assert.False(t, Can(employeeR1, ActionCreate, ResourceEmployee, emp).Allow)
	assert.True(t, Can(ownerR1, ActionCreate, ResourceEmployee, emp).Allow)
	assert.True(t, Can(ownerR1, ActionDelete, ResourceEmployee, emp).Allow)
	assert.False(t, Can(customerR1, ActionRead, ResourceEmployee, emp).Allow)

	foreignOwner := Actor{ID: 20, Role: RoleOwner, Authenticated: true}
	assert.False(t, Can(foreignOwner, ActionCreate, ResourceEmployee, emp).Allow)
}

func TestAffiliationMoveIsNotSelfService(t *testing.T) {
	// A self-update whose target sits at another restaurant is an
	// attempted affiliation move and is denied for the account itself.
	movedEmployee := &Target{ID: employeeR1.ID, RestaurantID: uintPtr(2), OwnerID: uintPtr(20)}
	assert.False(t, Can(employeeR1, ActionUpdate, ResourceEmployee, movedEmployee).Allow)

	movedCustomer := &Target{ID: customerR1.ID, RestaurantID: uintPtr(2), OwnerID: uintPtr(20)}
	assert.False(t, Can(customerR1, ActionUpdate, ResourceCustomer, movedCustomer).Allow)

	// The destination restaurant's owner and a superadmin may pull
	// the account in.
	destOwner := Actor{ID: 20, Role: RoleOwner, Authenticated: true}
	assert.True(t, Can(destOwner, ActionUpdate, ResourceEmployee, movedEmployee).Allow)
	assert.True(t, Can(superAdmin, ActionUpdate, ResourceEmployee, movedEmployee).Allow)

	// Same-restaurant self-updates stay allowed.
	self := &Target{ID: employeeR1.ID, RestaurantID: uintPtr(1), OwnerID: uintPtr(10)}
	assert.True(t, Can(employeeR1, ActionUpdate, ResourceEmployee, self).Allow)
}

func TestOwnerUserRules(t *testing.T) {
	self := &Target{ID: ownerR1.ID}
	other := &Target{ID: 20}

	assert.True(t, Can(ownerR1, ActionRead, ResourceOwner, self).Allow)
	assert.True(t, Can(ownerR1, ActionUpdate, ResourceOwner, self).Allow)
	assert.False(t, Can(ownerR1, ActionRead, ResourceOwner, other).Allow)
	assert.False(t, Can(ownerR1, ActionCreate, ResourceOwner, other).Allow)
	assert.False(t, Can(ownerR1, ActionDelete, ResourceOwner, other).Allow)
}

func TestRestaurantRules(t *testing.T) {
	r1 := &Target{ID: 1, OwnerID: uintPtr(10)}

	assert.True(t, Can(ownerR1, ActionCreate, ResourceRestaurant, &Target{OwnerID: uintPtr(10)}).Allow)
	assert.False(t, Can(ownerR1, ActionCreate, ResourceRestaurant, &Target{OwnerID: uintPtr(20)}).Allow,
		"a restaurant must name its creator as owner")
	assert.True(t, Can(ownerR1, ActionUpdate, ResourceRestaurant, r1).Allow)
	assert.True(t, Can(ownerR1, ActionDelete, ResourceRestaurant, r1).Allow)

	assert.True(t, Can(employeeR1, ActionRead, ResourceRestaurant, r1).Allow)
	assert.False(t, Can(employeeR1, ActionUpdate, ResourceRestaurant, r1).Allow)
	assert.False(t, Can(employeeR2, ActionRead, ResourceRestaurant, r1).Allow)
	assert.False(t, Can(customerR1, ActionRead, ResourceRestaurant, r1).Allow)
}

func TestOrderRules(t *testing.T) {
	ownOrder := &Target{ID: 7, RestaurantID: uintPtr(1), OwnerID: uintPtr(10), CustomerID: uintPtr(customerR1.ID)}

	assert.True(t, Can(customerR1, ActionCreate, ResourceOrder, ownOrder).Allow)
	assert.True(t, Can(customerR1, ActionRead, ResourceOrder, ownOrder).Allow)
	assert.False(t, Can(customerR1, ActionUpdate, ResourceOrder, ownOrder).Allow)
	assert.False(t, Can(customerR1, ActionDelete, ResourceOrder, ownOrder).Allow)

	// Forged customer or restaurant fields do not help.
	forged := &Target{RestaurantID: uintPtr(2), OwnerID: uintPtr(20), CustomerID: uintPtr(customerR1.ID)}
	assert.False(t, Can(customerR1, ActionCreate, ResourceOrder, forged).Allow,
		"customers can only order from their own restaurant")
	notSelf := &Target{RestaurantID: uintPtr(1), OwnerID: uintPtr(10), CustomerID: uintPtr(50)}
	assert.False(t, Can(customerR1, ActionCreate, ResourceOrder, notSelf).Allow)

	assert.True(t, Can(employeeR1, ActionUpdate, ResourceOrder, ownOrder).Allow)
	assert.False(t, Can(employeeR1, ActionDelete, ResourceOrder, ownOrder).Allow,
		"employee delete is forbidden")
	assert.False(t, Can(employeeR1, ActionCreate, ResourceOrder, ownOrder).Allow)
	assert.True(t, Can(ownerR1, ActionDelete, ResourceOrder, ownOrder).Allow)
}

func TestOrderItemRules(t *testing.T) {
	item := &Target{ID: 3, RestaurantID: uintPtr(1), OwnerID: uintPtr(10), CustomerID: uintPtr(customerR1.ID)}

	assert.True(t, Can(customerR1, ActionRead, ResourceOrderItem, item).Allow)
	assert.False(t, Can(customerR1, ActionUpdate, ResourceOrderItem, item).Allow)
	assert.True(t, Can(employeeR1, ActionUpdate, ResourceOrderItem, item).Allow)
	assert.False(t, Can(employeeR1, ActionDelete, ResourceOrderItem, item).Allow)
	assert.True(t, Can(ownerR1, ActionDelete, ResourceOrderItem, item).Allow)
	assert.False(t, Can(employeeR1, ActionCreate, ResourceOrderItem, item).Allow,
		"order items are created with their order")
}

func TestPaymentRules(t *testing.T) {
	own := &Target{ID: 1, UserID: uintPtr(customerR1.ID)}
	foreign := &Target{ID: 2, UserID: uintPtr(50)}

	assert.True(t, Can(customerR1, ActionRead, ResourcePayment, own).Allow)
	assert.True(t, Can(customerR1, ActionCreate, ResourcePayment, own).Allow)
	assert.False(t, Can(customerR1, ActionRead, ResourcePayment, foreign).Allow)
	assert.False(t, Can(customerR1, ActionUpdate, ResourcePayment, own).Allow,
		"payments change only through gateway reconciliation")
	assert.False(t, Can(customerR1, ActionDelete, ResourcePayment, own).Allow)
	assert.False(t, Can(ownerR1, ActionRead, ResourcePayment, foreign).Allow,
		"owners do not see other users' payments")
}
