package service

import "consultation-be/internal/entity"

type RequiredRole string

const (
	RequireRequester  RequiredRole = "REQUESTER"
	RequireSpecialist RequiredRole = "SPECIALIST"
	RequireEither     RequiredRole = "EITHER"
)

// Authorized reports whether actor fills the engagement slot named by
// required. The actor's role must agree with the slot it matches, so a
// specialist id that happens to equal the requester id is still rejected for
// REQUESTER. It never errors; callers decide between Unauthorized and
// Forbidden.
func Authorized(actor *entity.Principal, engagement *entity.Engagement, required RequiredRole) bool {
	if actor == nil || engagement == nil {
		return false
	}
	isRequester := actor.IsRequester() && engagement.RequesterId == actor.UserId
	isSpecialist := actor.IsSpecialist() && engagement.SpecialistId == actor.UserId

	switch required {
	case RequireRequester:
		return isRequester
	case RequireSpecialist:
		return isSpecialist
	case RequireEither:
		return isRequester || isSpecialist
	}
	return false
}
