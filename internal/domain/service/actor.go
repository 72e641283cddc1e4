package service

// Actor is the authenticated caller.
type Actor struct {
	UserID uint
	Admin  bool
}

// Scope limits technicians to their own services. Admins see everything
// unless they ask for one technician.
func (a Actor) Scope(technicianID *uint) Scope {
	if !a.Admin {
		id := a.UserID
		return Scope{TechnicianID: &id}
	}
	return Scope{TechnicianID: technicianID}
}
