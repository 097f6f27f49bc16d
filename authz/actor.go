package authz

// Role is the closed set of actor roles. Superadmin is not a role but
// an orthogonal flag on the actor.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceCustomer   Resource = "customer"
	ResourceEmployee   Resource = "employee"
	ResourceOwner      Resource = "owner"
	ResourceRestaurant Resource = "restaurant"
	ResourceMenu       Resource = "menu"
	ResourceMenuItem   Resource = "menu_item"
	ResourceOrder      Resource = "order"
	ResourceOrderItem  Resource = "order_item"
	ResourcePayment    Resource = "payment"
)

// Actor is the authenticated (or anonymous) caller. RestaurantID is
// the affiliation of employees and customers; owners relate to
// restaurants through ownership and carry no affiliation.
type Actor struct {
	ID            uint
	Role          Role
	RestaurantID  *uint
	SuperAdmin    bool
	Authenticated bool
}

// Target is the persisted state of the object a decision is evaluated
// against, reduced to the fields authorization depends on. Writes must
// build it from the freshly loaded row (post-change state), never from
// client-supplied relations.
type Target struct {
	ID           uint
	RestaurantID *uint // restaurant the object belongs to (affiliation for users)
	OwnerID      *uint // owner of that restaurant
	CustomerID   *uint // orders and order items: the ordering customer
	UserID       *uint // payments: the paying user
}

// Decision is the allow/deny outcome of a check, with a
// human-readable reason on denial.
type Decision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
}

func allow() Decision { return Decision{Allow: true} }

func deny(reason string) Decision { return Decision{Allow: false, Reason: reason} }
