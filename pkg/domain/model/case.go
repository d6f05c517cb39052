package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// CaseID is a UUID-based identifier for Case
type CaseID string

// NewCaseID generates a new UUID v4 CaseID
func NewCaseID() CaseID {
	return CaseID(uuid.New().String())
}

// Priority is the urgency rating derived from the report text
type Priority struct {
	Score int                 `json:"score" firestore:"score"`
	Level types.PriorityLevel `json:"level" firestore:"level"`
}

// Case is the report-to-resolution aggregate. Reporter identity never lives here;
// a named case only carries a reference into the identity vault.
type Case struct {
	ID             CaseID                      `json:"id" firestore:"id"`
	TenantID       types.TenantID              `json:"tenantId" firestore:"tenantId"`
	Title          string                      `json:"title" firestore:"title"`
	Description    string                      `json:"description" firestore:"description"`
	Summary        string                      `json:"summary" firestore:"summary"`
	Categories     []string                    `json:"categories" firestore:"categories"`
	Priority       Priority                    `json:"priority" firestore:"priority"`
	Status         types.CaseStatus            `json:"status" firestore:"status"`
	CreatedAt      time.Time                   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt" firestore:"updatedAt"`
	CreatedBy      *types.UserID               `json:"createdBy" firestore:"createdBy"`
	IdentityID     *IdentityID                 `json:"identityId" firestore:"identityId"`
	Anonymous      bool                        `json:"anonymous" firestore:"anonymous"`
	Source         types.Channel               `json:"source" firestore:"source"`
	ExternalSender *string                     `json:"externalSender" firestore:"externalSender"`
	Assignments    map[types.Role]types.UserID `json:"assignments" firestore:"assignments"`
	Messages       []MessageRef                `json:"messages" firestore:"messages"`
	Version        int64                       `json:"version" firestore:"version"`
}

// MessageRef is one encrypted message of a case. The plaintext is never stored.
type MessageRef struct {
	ID        MessageID      `json:"id" firestore:"id"`
	Author    string         `json:"author" firestore:"author"`
	Encrypted CipherEnvelope `json:"encrypted" firestore:"encrypted"`
	CreatedAt time.Time      `json:"createdAt" firestore:"createdAt"`
}

// Validate checks the anonymity invariants of the aggregate
func (c *Case) Validate() error {
	if c.ID == "" {
		return goerr.Wrap(ErrValidation, "case ID is required")
	}
	if c.TenantID == "" {
		return goerr.Wrap(ErrValidation, "tenant ID is required", goerr.V(CaseIDKey, c.ID))
	}
	if !c.Status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid case status", goerr.V(CaseIDKey, c.ID), goerr.V("status", c.Status))
	}
	if c.Anonymous {
		if c.IdentityID != nil || c.CreatedBy != nil {
			return goerr.Wrap(ErrValidation, "anonymous case must not reference an identity or author", goerr.V(CaseIDKey, c.ID))
		}
	} else {
		if c.IdentityID == nil || c.CreatedBy == nil {
			return goerr.Wrap(ErrValidation, "named case requires identity and author", goerr.V(CaseIDKey, c.ID))
		}
	}
	return nil
}

// IsAuthoredBy reports whether userID opened the case
func (c *Case) IsAuthoredBy(userID types.UserID) bool {
	return c.CreatedBy != nil && *c.CreatedBy == userID
}

// IsVisibleTo is the visibility predicate: privileged roles see every case of
// their tenant, anyone else only the cases they authored.
func (c *Case) IsVisibleTo(actor *Actor) bool {
	if actor == nil || actor.TenantID != c.TenantID {
		return false
	}
	if actor.Role.IsPrivileged() {
		return true
	}
	return c.IsAuthoredBy(actor.ID)
}

// Copy returns a deep copy of the case
func (c *Case) Copy() *Case {
	copied := *c

	if c.Categories != nil {
		copied.Categories = make([]string, len(c.Categories))
		copy(copied.Categories, c.Categories)
	}
	if c.CreatedBy != nil {
		v := *c.CreatedBy
		copied.CreatedBy = &v
	}
	if c.IdentityID != nil {
		v := *c.IdentityID
		copied.IdentityID = &v
	}
	if c.ExternalSender != nil {
		v := *c.ExternalSender
		copied.ExternalSender = &v
	}
	if c.Assignments != nil {
		copied.Assignments = make(map[types.Role]types.UserID, len(c.Assignments))
		for k, v := range c.Assignments {
			copied.Assignments[k] = v
		}
	}
	if c.Messages != nil {
		copied.Messages = make([]MessageRef, len(c.Messages))
		copy(copied.Messages, c.Messages)
	}

	return &copied
}

// CaseView is a case as returned to an authorized reader, with messages decrypted
type CaseView struct {
	*Case
	Messages []Message `json:"messages"`
}

// Message is a decrypted MessageRef
type Message struct {
	ID        MessageID `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
