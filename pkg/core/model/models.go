package model

import "slices"

type ResourceKind string

const (
	ResourceKindCrew   ResourceKind = "crew"
	ResourceKindPerson ResourceKind = "person"
)

func (k ResourceKind) IsValid() bool {
	return k == ResourceKindCrew || k == ResourceKindPerson
}

type Role string

const (
	RoleDiver      Role = "diver"
	RoleSupervisor Role = "supervisor"
)

func (r Role) IsValid() bool {
	return r == RoleDiver || r == RoleSupervisor
}

type AssignmentState string

const (
	AssignmentActive    AssignmentState = "active"
	AssignmentCancelled AssignmentState = "cancelled"
)

// Resource is an assignable crew (cuadrilla) or person
type Resource struct {
	ID                 string       `json:"id" yaml:"id"`
	Name               string       `json:"name" yaml:"name"`
	Kind               ResourceKind `json:"kind" yaml:"kind"`
	Role               Role         `json:"role,omitempty" yaml:"role,omitempty"`                             // persons only
	IsEmergencyStandby bool         `json:"isEmergencyStandby,omitempty" yaml:"isEmergencyStandby,omitempty"` // persons only
	MemberIDs          []string     `json:"memberIds,omitempty" yaml:"memberIds,omitempty"`                   // crews only
}

func (r Resource) IsCrew() bool {
	return r.Kind == ResourceKindCrew
}

func (r Resource) IsPerson() bool {
	return r.Kind == ResourceKindPerson
}

// TeamMember is a person embedded in an assignment's team list
type TeamMember struct {
	UserID             string `json:"userId" yaml:"userId"`
	Role               Role   `json:"role,omitempty" yaml:"role,omitempty"`
	IsEmergencyStandby bool   `json:"isEmergencyStandby,omitempty" yaml:"isEmergencyStandby,omitempty"`
}

// Assignment is a committed booking of a resource to an immersion on a date
type Assignment struct {
	ID                 string          `json:"id" yaml:"id"`
	ResourceID         string          `json:"resourceId" yaml:"resourceId"`
	Members            []TeamMember    `json:"members,omitempty" yaml:"members,omitempty"`
	ImmersionID        string          `json:"immersionId" yaml:"immersionId"`
	ImmersionCode      string          `json:"immersionCode" yaml:"immersionCode"`
	Date               string          `json:"date" yaml:"date"`
	StartTime          string          `json:"startTime,omitempty" yaml:"startTime,omitempty"` // stored, not used for conflicts
	EndTime            string          `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	State              AssignmentState `json:"state" yaml:"state"`
	IsEmergencyStandby bool            `json:"isEmergencyStandby,omitempty" yaml:"isEmergencyStandby,omitempty"`
}

// Blocks reports whether the assignment can create a conflict on its date
func (a Assignment) Blocks() bool {
	return a.State == AssignmentActive && !a.IsEmergencyStandby
}

// BlocksResource reports whether the assignment commits resourceID, either
// as the assigned resource or as a non-standby team member
func (a Assignment) BlocksResource(resourceID string) bool {
	if !a.Blocks() {
		return false
	}
	if a.ResourceID == resourceID {
		return true
	}
	return slices.Contains(a.CommittedPersonIDs(), resourceID)
}

// CommittedPersonIDs lists the people the assignment commits. A booking
// without members is a direct person assignment and commits its resource.
func (a Assignment) CommittedPersonIDs() []string {
	if len(a.Members) == 0 {
		if a.ResourceID == "" {
			return nil
		}
		return []string{a.ResourceID}
	}
	ids := make([]string, 0, len(a.Members))
	for _, m := range a.Members {
		if m.IsEmergencyStandby || m.UserID == "" {
			continue
		}
		ids = append(ids, m.UserID)
	}
	return ids
}

// ConflictQuery is the request sent to the assignment store for one resource
type ConflictQuery struct {
	ResourceID          string `json:"resourceId"`
	Date                string `json:"date"`
	ExcludeAssignmentID string `json:"excludeAssignmentId,omitempty"`
}

// Conflict records that a person is already committed on a date
type Conflict struct {
	UserID        string `json:"userId"`
	AssignmentID  string `json:"assignmentId"`
	ImmersionCode string `json:"immersionCode"`
	Date          string `json:"date"`
}

// PersonStatus is a roster entry annotated with its availability on a date
type PersonStatus struct {
	Resource
	IsAvailable bool      `json:"isAvailable"`
	Conflict    *Conflict `json:"conflict,omitempty"`
}
