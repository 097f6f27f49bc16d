// Package authz is the role × ownership decision engine. Every
// resource and action pair is resolved here by pure functions; the
// callers hold no policy of their own. The rules are default-deny:
// absence of a matching clause denies, and cross-restaurant access is
// denied for every role except superadmins, who bypass restaurant
// scoping entirely.
package authz

// Can decides whether actor may perform action on a resource. For
// reads the decision mirrors Scope: Can(actor, read, r, t) allows
// exactly the rows Scope(actor, r) returns. target may be nil only
// for creates of top-level resources (restaurants).
func Can(actor Actor, action Action, resource Resource, target *Target) Decision {
	if !actor.Authenticated {
		return deny("authentication required")
	}
	if target == nil {
		target = &Target{}
	}
	if actor.SuperAdmin {
		if action == ActionDelete && isUserResource(resource) && target.ID == actor.ID {
			return deny("users cannot delete their own account")
		}
		return allow()
	}

	switch resource {
	case ResourceCustomer:
		return canCustomerUser(actor, action, target)
	case ResourceEmployee:
		return canEmployeeUser(actor, action, target)
	case ResourceOwner:
		return canOwnerUser(actor, action, target)
	case ResourceRestaurant:
		return canRestaurant(actor, action, target)
	case ResourceMenu, ResourceMenuItem:
		return canMenu(actor, action, target)
	case ResourceOrder:
		return canOrder(actor, action, target)
	case ResourceOrderItem:
		return canOrderItem(actor, action, target)
	case ResourcePayment:
		return canPayment(actor, action, target)
	}
	return deny("unknown resource")
}

func isUserResource(r Resource) bool {
	return r == ResourceCustomer || r == ResourceEmployee || r == ResourceOwner
}

// sameRestaurant reports whether the actor's affiliation matches the
// target's restaurant.
func sameRestaurant(actor Actor, target *Target) bool {
	return actor.RestaurantID != nil && target.RestaurantID != nil &&
		*actor.RestaurantID == *target.RestaurantID
}

// ownsTargetRestaurant reports whether the actor owns the restaurant
// the target belongs to.
func ownsTargetRestaurant(actor Actor, target *Target) bool {
	return target.OwnerID != nil && *target.OwnerID == actor.ID
}

func canCustomerUser(actor Actor, action Action, target *Target) Decision {
	switch actor.Role {
	case RoleCustomer:
		switch action {
		case ActionRead:
			if target.ID == actor.ID {
				return allow()
			}
			return deny("customers can only access their own profile")
		case ActionCreate:
			return deny("customers cannot create a new profile; update the existing one instead")
		case ActionUpdate:
			if target.ID != actor.ID {
				return deny("customers can only update their own profile")
			}
			// A self-update whose target sits at another restaurant is
			// an affiliation move; only the destination side may pull
			// the account in.
			if !sameRestaurant(actor, target) {
				return deny("moving to another restaurant requires that restaurant's owner")
			}
			return allow()
		case ActionDelete:
			return deny("only owners may delete customers")
		}
	case RoleEmployee:
		switch action {
		case ActionRead, ActionCreate, ActionUpdate:
			if sameRestaurant(actor, target) {
				return allow()
			}
			return deny("employees can only manage customers of their own restaurant")
		case ActionDelete:
			return deny("only owners may delete customers")
		}
	case RoleOwner:
		if ownsTargetRestaurant(actor, target) {
			return allow()
		}
		return deny("owners can only manage customers of their own restaurants")
	}
	return deny("no permission for this action")
}

func canEmployeeUser(actor Actor, action Action, target *Target) Decision {
	switch actor.Role {
	case RoleEmployee:
		switch action {
		case ActionRead:
			if target.ID == actor.ID {
				return allow()
			}
			return deny("employees can only access their own profile")
		case ActionUpdate:
			if target.ID != actor.ID {
				return deny("employees can only update their own profile")
			}
			// Self-updates stop at the restaurant boundary: an
			// affiliation move is granted by the destination owner,
			// not taken by the employee.
			if !sameRestaurant(actor, target) {
				return deny("moving to another restaurant requires that restaurant's owner")
			}
			return allow()
		case ActionCreate:
			return deny("only owners may create employees")
		case ActionDelete:
			return deny("only owners may delete employees")
		}
	case RoleOwner:
		if ownsTargetRestaurant(actor, target) {
			return allow()
		}
		return deny("owners can only manage employees of their own restaurants")
	case RoleCustomer:
		return deny("customers cannot access employees")
	}
	return deny("no permission for this action")
}

func canOwnerUser(actor Actor, action Action, target *Target) Decision {
	if actor.Role != RoleOwner {
		return deny("only owners may access owner accounts")
	}
	switch action {
	case ActionRead, ActionUpdate:
		if target.ID == actor.ID {
			return allow()
		}
		return deny("owners can only access their own profile")
	case ActionCreate:
		return deny("only superadmins may create owners")
	case ActionDelete:
		return deny("only superadmins may delete owners")
	}
	return deny("no permission for this action")
}

func canRestaurant(actor Actor, action Action, target *Target) Decision {
	switch actor.Role {
	case RoleOwner:
		switch action {
		case ActionCreate:
			if target.OwnerID != nil && *target.OwnerID == actor.ID {
				return allow()
			}
			return deny("a restaurant must name its creator as owner")
		case ActionRead, ActionUpdate, ActionDelete:
			if ownsTargetRestaurant(actor, target) {
				return allow()
			}
			return deny("only the owner of this restaurant may access it")
		}
	case RoleEmployee:
		if action == ActionRead && actor.RestaurantID != nil && *actor.RestaurantID == target.ID {
			return allow()
		}
		return deny("employees have read-only access to their own restaurant")
	case RoleCustomer:
		return deny("customers cannot access restaurants directly")
	}
	return deny("no permission for this action")
}

// canMenu covers menus and menu items; a menu item inherits the
// restaurant of its menu.
func canMenu(actor Actor, action Action, target *Target) Decision {
	switch actor.Role {
	case RoleOwner:
		if ownsTargetRestaurant(actor, target) {
			return allow()
		}
		return deny("owners can only manage menus of their own restaurants")
	case RoleEmployee:
		if sameRestaurant(actor, target) {
			return allow()
		}
		return deny("employees can only manage menus of their own restaurant")
	case RoleCustomer:
		if action == ActionRead && sameRestaurant(actor, target) {
			return allow()
		}
		return deny("customers can only view menus of their own restaurant")
	}
	return deny("no permission for this action")
}

func canOrder(actor Actor, action Action, target *Target) Decision {
	switch actor.Role {
	case RoleCustomer:
		switch action {
		case ActionRead:
			if target.CustomerID != nil && *target.CustomerID == actor.ID {
				return allow()
			}
			return deny("customers can only view their own orders")
		case ActionCreate:
			if target.CustomerID == nil || *target.CustomerID != actor.ID {
				return deny("customers can only order for themselves")
			}
			if !sameRestaurant(actor, target) {
				return deny("customers can only order from their own restaurant")
			}
			return allow()
		case ActionUpdate, ActionDelete:
			return deny("customers cannot modify orders once placed")
		}
	case RoleEmployee:
		switch action {
		case ActionRead, ActionUpdate:
			if sameRestaurant(actor, target) {
				return allow()
			}
			return deny("employees can only manage orders of their own restaurant")
		case ActionCreate:
			return deny("only customers may place orders")
		case ActionDelete:
			return deny("only owners may delete orders")
		}
	case RoleOwner:
		switch action {
		case ActionRead, ActionUpdate, ActionDelete:
			if ownsTargetRestaurant(actor, target) {
				return allow()
			}
			return deny("owners can only manage orders of their own restaurants")
		case ActionCreate:
			return deny("only customers may place orders")
		}
	}
	return deny("no permission for this action")
}

func canOrderItem(actor Actor, action Action, target *Target) Decision {
	switch actor.Role {
	case RoleCustomer:
		if action == ActionRead && target.CustomerID != nil && *target.CustomerID == actor.ID {
			return allow()
		}
		return deny("customers can only view items of their own orders")
	case RoleEmployee:
		switch action {
		case ActionRead, ActionUpdate:
			if sameRestaurant(actor, target) {
				return allow()
			}
			return deny("employees can only manage order items of their own restaurant")
		case ActionCreate:
			return deny("order items are created together with their order")
		case ActionDelete:
			return deny("only owners may delete order items")
		}
	case RoleOwner:
		switch action {
		case ActionRead, ActionUpdate, ActionDelete:
			if ownsTargetRestaurant(actor, target) {
				return allow()
			}
			return deny("owners can only manage order items of their own restaurants")
		case ActionCreate:
			return deny("order items are created together with their order")
		}
	}
	return deny("no permission for this action")
}

func canPayment(actor Actor, action Action, target *Target) Decision {
	switch action {
	case ActionRead:
		if target.UserID != nil && *target.UserID == actor.ID {
			return allow()
		}
		return deny("payments are visible to the paying user only")
	case ActionCreate:
		if target.UserID != nil && *target.UserID == actor.ID {
			return allow()
		}
		return deny("payment intents can only be created for yourself")
	case ActionUpdate:
		return deny("payments are updated by gateway reconciliation only")
	case ActionDelete:
		return deny("payments cannot be deleted")
	}
	return deny("no permission for this action")
}
