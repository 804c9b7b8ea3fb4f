package models

// Inventory holds one quantity per resource handle
type Inventory struct {
	amounts []float64
}

// NewInventory creates an all-zero inventory with n slots
func NewInventory(n int) Inventory {
	return Inventory{amounts: make([]float64, n)}
}

// EmptyInventory creates an all-zero inventory sized for the registry
func EmptyInventory(r *Registry) Inventory {
	return NewInventory(r.Len())
}

// Len returns the number of slots
func (inv Inventory) Len() int {
	return len(inv.amounts)
}

// Amount returns the quantity held for h, or 0 if h has no slot
func (inv Inventory) Amount(h Handle) float64 {
	if h.index < 0 || h.index >= len(inv.amounts) {
		return 0
	}
	return inv.amounts[h.index]
}

// Set stores amount for h. It returns false if h has no slot.
func (inv Inventory) Set(h Handle, amount float64) bool {
	if h.index < 0 || h.index >= len(inv.amounts) {
		return false
	}
	inv.amounts[h.index] = amount
	return true
}

// Add adjusts the quantity for h by delta. It returns false if h has no slot.
func (inv Inventory) Add(h Handle, delta float64) bool {
	if h.index < 0 || h.index >= len(inv.amounts) {
		return false
	}
	inv.amounts[h.index] += delta
	return true
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make([]float64, len(inv.amounts))
	copy(out, inv.amounts)
	return Inventory{amounts: out}
}

// Amounts returns a copy of the quantities in handle order
func (inv Inventory) Amounts() []float64 {
	return inv.Clone().amounts
}
