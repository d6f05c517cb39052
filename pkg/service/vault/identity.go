package vault

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// IdentityVault keeps reporter identities encrypted and apart from case content
type IdentityVault struct {
	crypto *Crypto
	repo   interfaces.IdentityRepository
}

func NewIdentityVault(crypto *Crypto, repo interfaces.IdentityRepository) *IdentityVault {
	return &IdentityVault{crypto: crypto, repo: repo}
}

// Store seals identity and appends a new record linked to caseID
func (v *IdentityVault) Store(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, identity *model.Identity) (model.IdentityID, error) {
	env, err := v.crypto.Seal(identity)
	if err != nil {
		return "", goerr.Wrap(err, "failed to seal identity", goerr.V(model.CaseIDKey, caseID))
	}

	record := &model.IdentityRecord{
		ID:        model.NewIdentityID(),
		TenantID:  tenantID,
		CaseID:    caseID,
		Encrypted: *env,
		CreatedAt: time.Now().UTC(),
	}
	if err := v.repo.Put(ctx, record); err != nil {
		return "", goerr.Wrap(err, "failed to store identity record", goerr.V(model.CaseIDKey, caseID))
	}

	return record.ID, nil
}

// Retrieve returns the decrypted identity, or nil when no record exists.
// A record that fails authentication yields an error wrapping model.ErrIntegrity.
func (v *IdentityVault) Retrieve(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	record, err := v.repo.Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load identity record", goerr.V(model.IdentityIDKey, id))
	}
	if record == nil {
		return nil, nil
	}

	var identity model.Identity
	if err := v.crypto.Open(&record.Encrypted, &identity); err != nil {
		return nil, goerr.Wrap(err, "failed to open identity record", goerr.V(model.IdentityIDKey, id))
	}
	return &identity, nil
}
