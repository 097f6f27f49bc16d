package authz

import "gorm.io/gorm"

// Scope returns a gorm scope restricting a collection read to the
// rows the actor may see. For every actor and row, the scope returns
// the row iff Can(actor, read, resource, rowTarget) allows it.
func Scope(actor Actor, resource Resource) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !actor.Authenticated {
			return none(db)
		}
		switch resource {
		case ResourceCustomer:
			return scopeUsers(db, actor, RoleCustomer)
		case ResourceEmployee:
			return scopeUsers(db, actor, RoleEmployee)
		case ResourceOwner:
			db = db.Where("role = ?", string(RoleOwner))
			if actor.SuperAdmin {
				return db
			}
			if actor.Role == RoleOwner {
				return db.Where("id = ?", actor.ID)
			}
			return none(db)
		case ResourceRestaurant:
			if actor.SuperAdmin {
				return db
			}
			switch actor.Role {
			case RoleOwner:
				return db.Where("owner_id = ?", actor.ID)
			case RoleEmployee:
				if actor.RestaurantID == nil {
					return none(db)
				}
				return db.Where("id = ?", *actor.RestaurantID)
			}
			return none(db)
		case ResourceMenu:
			return scopeByRestaurant(db, actor, "restaurant_id")
		case ResourceMenuItem:
			if actor.SuperAdmin {
				return db
			}
			switch actor.Role {
			case RoleEmployee, RoleCustomer:
				if actor.RestaurantID == nil {
					return none(db)
				}
				return db.Where("menu_id IN (SELECT id FROM menus WHERE restaurant_id = ?)", *actor.RestaurantID)
			case RoleOwner:
				return db.Where("menu_id IN (SELECT id FROM menus WHERE restaurant_id IN (SELECT id FROM restaurants WHERE owner_id = ?))", actor.ID)
			}
			return none(db)
		case ResourceOrder:
			if actor.SuperAdmin {
				return db
			}
			switch actor.Role {
			case RoleCustomer:
				return db.Where("customer_id = ?", actor.ID)
			case RoleEmployee:
				if actor.RestaurantID == nil {
					return none(db)
				}
				return db.Where("restaurant_id = ?", *actor.RestaurantID)
			case RoleOwner:
				return db.Where("restaurant_id IN (SELECT id FROM restaurants WHERE owner_id = ?)", actor.ID)
			}
			return none(db)
		case ResourceOrderItem:
			if actor.SuperAdmin {
				return db
			}
			switch actor.Role {
			case RoleCustomer:
				return db.Where("order_id IN (SELECT id FROM orders WHERE customer_id = ?)", actor.ID)
			case RoleEmployee:
				if actor.RestaurantID == nil {
					return none(db)
				}
				return db.Where("order_id IN (SELECT id FROM orders WHERE restaurant_id = ?)", *actor.RestaurantID)
			case RoleOwner:
				return db.Where("order_id IN (SELECT id FROM orders WHERE restaurant_id IN (SELECT id FROM restaurants WHERE owner_id = ?))", actor.ID)
			}
			return none(db)
		case ResourcePayment:
			if actor.SuperAdmin {
				return db
			}
			return db.Where("user_id = ?", actor.ID)
		}
		return none(db)
	}
}

// scopeUsers restricts the users table to rows of the given role that
// the actor may see.
func scopeUsers(db *gorm.DB, actor Actor, role Role) *gorm.DB {
	db = db.Where("role = ?", string(role))
	if actor.SuperAdmin {
		return db
	}
	switch actor.Role {
	case RoleCustomer:
		if role != RoleCustomer {
			return none(db)
		}
		return db.Where("id = ?", actor.ID)
	case RoleEmployee:
		if role == RoleEmployee {
			return db.Where("id = ?", actor.ID)
		}
		if actor.RestaurantID == nil {
			return none(db)
		}
		return db.Where("restaurant_id = ?", *actor.RestaurantID)
	case RoleOwner:
		return db.Where("restaurant_id IN (SELECT id FROM restaurants WHERE owner_id = ?)", actor.ID)
	}
	return none(db)
}

func scopeByRestaurant(db *gorm.DB, actor Actor, column string) *gorm.DB {
	if actor.SuperAdmin {
		return db
	}
	switch actor.Role {
	case RoleEmployee, RoleCustomer:
		if actor.RestaurantID == nil {
			return none(db)
		}
		return db.Where(column+" = ?", *actor.RestaurantID)
	case RoleOwner:
		return db.Where(column+" IN (SELECT id FROM restaurants WHERE owner_id = ?)", actor.ID)
	}
	return none(db)
}

// none yields an empty result set without touching the database rows.
func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}
