package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/vault"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// SubmitInput is a report filed directly by an authenticated user
type SubmitInput struct {
	Title       string
	Description string
	// Categories overrides the classifier when not empty
	Categories []string
	Anonymous  bool
}

type CaseUseCase struct {
	repo       interfaces.Repository
	vaults     *vault.Vaults
	classifier interfaces.Classifier
	tasks      *TaskUseCase
	directory  interfaces.UserDirectory
	now        func() time.Time
}

func NewCaseUseCase(repo interfaces.Repository, vaults *vault.Vaults, classifier interfaces.Classifier, tasks *TaskUseCase, directory interfaces.UserDirectory, now func() time.Time) *CaseUseCase {
	if now == nil {
		now = time.Now
	}
	return &CaseUseCase{
		repo:       repo,
		vaults:     vaults,
		classifier: classifier,
		tasks:      tasks,
		directory:  directory,
		now:        now,
	}
}

// Submit opens a case from the web form. A named report stores the reporter
// identity in the identity vault before the case is persisted.
func (uc *CaseUseCase) Submit(ctx context.Context, actor *model.Actor, input SubmitInput) (*model.Case, error) {
	if actor == nil {
		return nil, errPermission(nil, "authentication required to submit a report")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, errValidation("title and description are required")
	}
	for _, category := range input.Categories {
		if err := types.CategoryID(category).Validate(); err != nil {
			return nil, goerr.Wrap(model.ErrValidation, "invalid category", goerr.V("category", category), goerr.V("reason", err.Error()))
		}
	}

	classification, err := uc.classifier.Analyze(ctx, input.Description)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify report")
	}
	categories := classification.Categories
	if len(input.Categories) > 0 {
		categories = input.Categories
	}

	now := uc.now().UTC()
	c := &model.Case{
		ID:          model.NewCaseID(),
		TenantID:    actor.TenantID,
		Title:       input.Title,
		Description: input.Description,
		Summary:     classification.Summary,
		Categories:  categories,
		Priority:    classification.Priority,
		Status:      types.CaseStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
		Anonymous:   input.Anonymous,
		Source:      types.ChannelWeb,
		Assignments: map[types.Role]types.UserID{},
		Messages:    []model.MessageRef{},
	}

	if !input.Anonymous {
		identityID, err := uc.vaults.Identity.Store(ctx, actor.TenantID, c.ID, &model.Identity{
			Name:   actor.Name,
			Email:  actor.Email,
			UserID: actor.ID,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to store reporter identity", goerr.V(model.CaseIDKey, c.ID))
		}
		createdBy := actor.ID
		c.IdentityID = &identityID
		c.CreatedBy = &createdBy
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Case().Create(ctx, actor.TenantID, c)
	if err != nil {
		if c.IdentityID != nil {
			logging.From(ctx).Warn("identity record left without case", "identity_id", *c.IdentityID, "case_id", c.ID)
		}
		return nil, goerr.Wrap(err, "failed to create case", goerr.V(model.CaseIDKey, c.ID))
	}

	logging.From(ctx).Info("case submitted",
		"case_id", created.ID,
		"anonymous", created.Anonymous,
		"priority", created.Priority.Level,
	)
	return created, nil
}

// List returns the cases visible to actor. Privileged roles see all cases of the
// tenant, any other role only its own.
func (uc *CaseUseCase) List(ctx context.Context, actor *model.Actor, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	if actor == nil {
		return nil, errPermission(nil, "authentication required to list cases")
	}
	if !actor.Role.IsPrivileged() {
		opts = append(opts, interfaces.WithCreatedBy(actor.ID))
	}

	cases, err := uc.repo.Case().List(ctx, actor.TenantID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases", goerr.V(model.TenantIDKey, actor.TenantID))
	}
	return cases, nil
}

// Get returns a case with its messages decrypted. A non-privileged actor gets
// ErrPermissionDenied both for missing cases and for cases of someone else.
func (uc *CaseUseCase) Get(ctx context.Context, actor *model.Actor, id model.CaseID) (*model.CaseView, error) {
	if actor == nil {
		return nil, errPermission(nil, "authentication required to read a case")
	}

	c, err := uc.repo.Case().Get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, uc.hideMissing(actor, id, err)
	}
	if !c.IsVisibleTo(actor) {
		return nil, errPermission(actor, "case is not visible to actor", goerr.V(model.CaseIDKey, id))
	}

	messages := make([]model.Message, 0, len(c.Messages))
	for i := range c.Messages {
		ref := &c.Messages[i]
		content, err := uc.vaults.Message.Decrypt(&ref.Encrypted)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decrypt message",
				goerr.V(model.CaseIDKey, id), goerr.V("message_id", ref.ID))
		}
		messages = append(messages, model.Message{
			ID:        ref.ID,
			Author:    ref.Author,
			Content:   content,
			CreatedAt: ref.CreatedAt,
		})
	}

	return &model.CaseView{Case: c, Messages: messages}, nil
}

// AppendMessage encrypts content and appends it to the case. The append runs
// inside an atomic update so concurrent messages are all kept.
func (uc *CaseUseCase) AppendMessage(ctx context.Context, actor *model.Actor, id model.CaseID, content string) (*model.Message, error) {
	if actor == nil {
		return nil, errPermission(nil, "authentication required to post a message")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errValidation("message content is required", goerr.V(model.CaseIDKey, id))
	}

	env, err := uc.vaults.Message.Encrypt(content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encrypt message", goerr.V(model.CaseIDKey, id))
	}

	now := uc.now().UTC()
	ref := model.MessageRef{
		ID:        model.NewMessageID(now),
		Author:    string(actor.ID),
		Encrypted: *env,
		CreatedAt: now,
	}

	_, err = uc.repo.Case().Update(ctx, actor.TenantID, id, func(c *model.Case) error {
		if !c.IsVisibleTo(actor) {
			return errPermission(actor, "case is not visible to actor", goerr.V(model.CaseIDKey, id))
		}
		c.Messages = append(c.Messages, ref)
		return nil
	})
	if err != nil {
		return nil, uc.hideMissing(actor, id, err)
	}

	return &model.Message{
		ID:        ref.ID,
		Author:    ref.Author,
		Content:   content,
		CreatedAt: ref.CreatedAt,
	}, nil
}

// SetStatus moves the case to status directly. Restricted to privileged roles.
func (uc *CaseUseCase) SetStatus(ctx context.Context, actor *model.Actor, id model.CaseID, status types.CaseStatus) (*model.Case, error) {
	if err := requirePrivileged(actor, "only privileged roles can change case status"); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, errValidation("invalid case status", goerr.V(model.CaseIDKey, id), goerr.V("status", status))
	}

	var entered bool
	updated, err := uc.repo.Case().Update(ctx, actor.TenantID, id, func(c *model.Case) error {
		var err error
		entered, err = ApplyStatus(c, status)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case status", goerr.V(model.CaseIDKey, id))
	}

	if err := uc.afterTransition(ctx, updated, entered); err != nil {
		return nil, err
	}
	return updated, nil
}

// Assign records which user holds role on the case and advances the workflow
func (uc *CaseUseCase) Assign(ctx context.Context, actor *model.Actor, id model.CaseID, role types.Role, userID types.UserID) (*model.Case, error) {
	if err := requireRole(actor, "only admin, ceo or triage can assign cases",
		types.RoleAdmin, types.RoleCEO, types.RoleTriage); err != nil {
		return nil, err
	}
	if role == "" || userID == "" {
		return nil, errValidation("roleName and userId are required", goerr.V(model.CaseIDKey, id))
	}
	if !role.In(types.RoleAdmin, types.RoleCEO, types.RoleTriage, types.RoleInvestigator, types.RoleUser) {
		return nil, errValidation("unknown role", goerr.V(model.CaseIDKey, id), goerr.V(model.RoleKey, role))
	}
	if err := checkUser(ctx, uc.directory, actor.TenantID, userID); err != nil {
		return nil, err
	}

	var entered bool
	updated, err := uc.repo.Case().Update(ctx, actor.TenantID, id, func(c *model.Case) error {
		entered = ApplyAssignment(c, role, userID)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assign case", goerr.V(model.CaseIDKey, id))
	}

	logging.From(ctx).Info("case assigned",
		"case_id", id,
		"role", role,
		"status", updated.Status,
	)

	if err := uc.afterTransition(ctx, updated, entered); err != nil {
		return nil, err
	}
	return updated, nil
}

// RevealIdentity decrypts the reporter identity of a named case. Restricted to
// admin and ceo; anonymous cases have no identity to reveal.
func (uc *CaseUseCase) RevealIdentity(ctx context.Context, actor *model.Actor, id model.CaseID) (*model.Identity, error) {
	if err := requireRole(actor, "only admin or ceo can reveal reporter identity",
		types.RoleAdmin, types.RoleCEO); err != nil {
		return nil, err
	}

	c, err := uc.repo.Case().Get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(model.CaseIDKey, id))
	}
	if c.Anonymous || c.IdentityID == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "anonymous case has no identity", goerr.V(model.CaseIDKey, id))
	}

	identity, err := uc.vaults.Identity.Retrieve(ctx, *c.IdentityID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve identity", goerr.V(model.CaseIDKey, id))
	}
	if identity == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "identity record not found",
			goerr.V(model.CaseIDKey, id), goerr.V(model.IdentityIDKey, *c.IdentityID))
	}

	logging.From(ctx).Info("reporter identity revealed", "case_id", id, "actor_id", actor.ID, "role", actor.Role)
	return identity, nil
}

// afterTransition opens the investigation checklist for a case in investigation.
// It also runs when the status did not change so that a failed generation is
// retried by repeating the request.
func (uc *CaseUseCase) afterTransition(ctx context.Context, c *model.Case, entered bool) error {
	if entered {
		logging.From(ctx).Info("case entered investigation", "case_id", c.ID)
	}
	if c.Status != types.CaseStatusInvestigation {
		return nil
	}
	if err := uc.tasks.Generate(ctx, c.TenantID, c.ID); err != nil {
		return goerr.Wrap(err, "failed to generate investigation tasks", goerr.V(model.CaseIDKey, c.ID))
	}
	return nil
}

// hideMissing turns a missing case into ErrPermissionDenied for non-privileged
// actors so that case ids cannot be probed.
func (uc *CaseUseCase) hideMissing(actor *model.Actor, id model.CaseID, err error) error {
	if errors.Is(err, model.ErrNotFound) && !actor.Role.IsPrivileged() {
		return errPermission(actor, "case is not visible to actor", goerr.V(model.CaseIDKey, id))
	}
	return goerr.Wrap(err, "failed to access case", goerr.V(model.CaseIDKey, id))
}
