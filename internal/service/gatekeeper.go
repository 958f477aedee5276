package service

import (
	"consultation-be/internal/entity"
)

type ResourceType string

const (
	ResourceVisit    ResourceType = "VISIT"
	ResourceReport   ResourceType = "REPORT"
	ResourceFeedback ResourceType = "FEEDBACK"
)

type gate struct {
	statuses []entity.EngagementStatus
	creator  RequiredRole
}

var gates = map[ResourceType]gate{
	ResourceVisit: {
		statuses: []entity.EngagementStatus{entity.EngagementStatusApproved},
		creator:  RequireSpecialist,
	},
	ResourceReport: {
		statuses: []entity.EngagementStatus{entity.EngagementStatusApproved, entity.EngagementStatusCompleted},
		creator:  RequireSpecialist,
	},
	ResourceFeedback: {
		statuses: []entity.EngagementStatus{entity.EngagementStatusCompleted},
		creator:  RequireRequester,
	},
}

// CanCreate reports whether the engagement's current status admits a new
// resource of the given type. Pass a freshly loaded engagement.
func CanCreate(engagement *entity.Engagement, resource ResourceType) bool {
	g, ok := gates[resource]
	if !ok || engagement == nil {
		return false
	}
	for _, st := range g.statuses {
		if engagement.Status == st {
			return true
		}
	}
	return false
}

// CreatorRole is the engagement slot allowed to create and mutate resource.
func CreatorRole(resource ResourceType) RequiredRole {
	return gates[resource].creator
}
