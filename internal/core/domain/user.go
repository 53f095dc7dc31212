package domain

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleCourier    = "courier"
)

// Identity is a verified caller: who it is and what it may do.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsDispatch reports whether the identity belongs to the dispatch audience.
func (i Identity) IsDispatch() bool {
	return i.Role == RoleAdmin || i.Role == RoleDispatcher
}

// Courier is the directory view of a courier. Owned by the user management service.
type Courier struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}
