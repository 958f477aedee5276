package entity

import "github.com/google/uuid"

// Principal is the authenticated caller. It is passed explicitly into every
// service call; nil means the request carried no valid identity.
type Principal struct {
	UserId uuid.UUID
	Email  string
	Role   UserRole
}

func (p *Principal) IsRequester() bool {
	return p != nil && p.Role == UserRoleRequester
}

func (p *Principal) IsSpecialist() bool {
	return p != nil && p.Role == UserRoleSpecialist
}
