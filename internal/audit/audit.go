package audit

import (
	"context"
	"time"
)

// Log is the append-only audit record. Application code only ever inserts;
// updates and deletes are not exposed anywhere.
type Log struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	OrganizationID *int64    `json:"organization_id,omitempty" gorm:"column:organization_id"`
	UserID         *int64    `json:"user_id,omitempty" gorm:"column:user_id"`
	UserEmail      string    `json:"user_email" gorm:"column:user_email"`
	Action         string    `json:"action" gorm:"not null"`
	EntityType     string    `json:"entity_type" gorm:"column:entity_type;not null"`
	EntityID       int64     `json:"entity_id" gorm:"column:entity_id"`
	Detail         string    `json:"detail"`
	Metadata       string    `json:"metadata,omitempty" gorm:"column:metadata"`
	IPAddress      string    `json:"ip_address,omitempty" gorm:"column:ip_address"`
	UserAgent      string    `json:"user_agent,omitempty" gorm:"column:user_agent"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Log) TableName() string {
	return "audit_logs"
}

// Event is what services hand the recorder after a successful mutation.
type Event struct {
	Action     string
	EntityType string
	EntityID   int64
	Detail     string
	Metadata   map[string]interface{}
}

// Recorder appends audit events best-effort. Implementations must never return
// an error to the caller: a dropped audit event is accepted as permanent loss.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Origin carries request metadata (remote address, user agent) from the HTTP
// layer down to the recorder without threading it through every service call.
type Origin struct {
	IPAddress string
	UserAgent string
}

type originCtxKey string

const contextOriginKey originCtxKey = "auditOrigin"

func ContextWithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, contextOriginKey, origin)
}

func OriginFromContext(ctx context.Context) Origin {
	if ctx == nil {
		return Origin{}
	}
	if o, ok := ctx.Value(contextOriginKey).(Origin); ok {
		return o
	}
	return Origin{}
}
