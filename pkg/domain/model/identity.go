package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// IdentityID is a UUID-based identifier for a vaulted identity record
type IdentityID string

// NewIdentityID generates a new UUID v4 IdentityID
func NewIdentityID() IdentityID {
	return IdentityID(uuid.New().String())
}

// Identity is the reporter's personal data in plaintext. It only exists in memory.
type Identity struct {
	Name   string       `json:"name"`
	Email  string       `json:"email" masq:"secret"`
	UserID types.UserID `json:"userId"`
}

// IdentityRecord is the persisted, encrypted form of an Identity
type IdentityRecord struct {
	ID        IdentityID     `json:"id" firestore:"id"`
	TenantID  types.TenantID `json:"tenantId" firestore:"tenantId"`
	CaseID    CaseID         `json:"caseId" firestore:"caseId"`
	Encrypted CipherEnvelope `json:"encrypted" firestore:"encrypted"`
	CreatedAt time.Time      `json:"createdAt" firestore:"createdAt"`
}
