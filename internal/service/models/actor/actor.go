package actor

// Capability is a permission held by an actor.
type Capability string

const (
	// CapabilityManageStore is the privileged store-management capability.
	CapabilityManageStore Capability = "manage_store"
	// CapabilityEditOrders grants order management without full store access.
	CapabilityEditOrders Capability = "edit_orders"
)

// Actor is the identity performing a request, supplied by the external
// identity provider. ID 0 means anonymous.
type Actor struct {
	ID           int64
	Capabilities []Capability
}

// Can reports whether the actor holds the given capability.
func (a Actor) Can(c Capability) bool {
	for _, have := range a.Capabilities {
		if have == c {
			return true
		}
	}

	return false
}
