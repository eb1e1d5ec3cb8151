package db

import (
	"time"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// ResourceRecord is a row of the resource table
type ResourceRecord struct {
	ID                 string   `gorm:"primaryKey"`
	Name               string   `gorm:"not null"`
	Kind               string   `gorm:"not null;index"`
	Role               string   `gorm:"index"`
	IsEmergencyStandby bool     `gorm:"not null"`
	MemberIDs          []string `gorm:"serializer:json"`
	CreatedAt          time.Time
}

func (ResourceRecord) TableName() string {
	return "resource"
}

// AssignmentRecord is a row of the assignment table. The team list is
// embedded as JSON, matching how assignments are read back.
type AssignmentRecord struct {
	ID                 string             `gorm:"primaryKey"`
	ResourceID         string             `gorm:"not null;index"`
	Members            []model.TeamMember `gorm:"serializer:json"`
	ImmersionID        string
	ImmersionCode      string `gorm:"not null"`
	AssignmentDate     string `gorm:"not null;index"`
	StartTime          string
	EndTime            string
	State              string `gorm:"not null;index"`
	IsEmergencyStandby bool   `gorm:"not null"`
	CreatedAt          time.Time
}

func (AssignmentRecord) TableName() string {
	return "assignment"
}

func resourceFromModel(r model.Resource) ResourceRecord {
	return ResourceRecord{
		ID:                 r.ID,
		Name:               r.Name,
		Kind:               string(r.Kind),
		Role:               string(r.Role),
		IsEmergencyStandby: r.IsEmergencyStandby,
		MemberIDs:          r.MemberIDs,
	}
}

func (r ResourceRecord) toModel() model.Resource {
	return model.Resource{
		ID:                 r.ID,
		Name:               r.Name,
		Kind:               model.ResourceKind(r.Kind),
		Role:               model.Role(r.Role),
		IsEmergencyStandby: r.IsEmergencyStandby,
		MemberIDs:          r.MemberIDs,
	}
}

func assignmentFromModel(a model.Assignment) AssignmentRecord {
	state := a.State
	if state == "" {
		state = model.AssignmentActive
	}
	return AssignmentRecord{
		ID:                 a.ID,
		ResourceID:         a.ResourceID,
		Members:            a.Members,
		ImmersionID:        a.ImmersionID,
		ImmersionCode:      a.ImmersionCode,
		AssignmentDate:     a.Date,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		State:              string(state),
		IsEmergencyStandby: a.IsEmergencyStandby,
	}
}

func (r AssignmentRecord) toModel() model.Assignment {
	return model.Assignment{
		ID:                 r.ID,
		ResourceID:         r.ResourceID,
		Members:            r.Members,
		ImmersionID:        r.ImmersionID,
		ImmersionCode:      r.ImmersionCode,
		Date:               r.AssignmentDate,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		State:              model.AssignmentState(r.State),
		IsEmergencyStandby: r.IsEmergencyStandby,
	}
}
