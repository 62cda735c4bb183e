package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// CredentialStore is the backend's credential collection
type CredentialStore interface {
	ListCredentials(ctx context.Context) ([]types.Credential, error)
	CreateCredential(ctx context.Context, req types.CreateCredentialRequest) (*types.Credential, error)
	DeleteCredential(ctx context.Context, id int) error
}

// CredentialSelector lists stored credentials and applies one to an
// install-tools form
type CredentialSelector struct {
	store    CredentialStore
	logger   *logrus.Logger
	observer Observer

	mu    sync.Mutex
	items []types.Credential
}

// NewCredentialSelector creates an empty selector
func NewCredentialSelector(store CredentialStore, logger *logrus.Logger, observer Observer) *CredentialSelector {
	if observer == nil {
		observer = nopObserver{}
	}
	return &CredentialSelector{store: store, logger: logger, observer: observer}
}

// Load fetches the credential list
func (s *CredentialSelector) Load(ctx context.Context) ([]types.Credential, error) {
	start := time.Now()
	creds, err := s.store.ListCredentials(ctx)
	s.observer.FetchCompleted(ViewCredentials, time.Since(start), err)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load credentials")
		return nil, err
	}

	s.mu.Lock()
	s.items = creds
	s.mu.Unlock()
	return append([]types.Credential(nil), creds...), nil
}

// Items returns the last loaded credentials
func (s *CredentialSelector) Items() []types.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Credential(nil), s.items...)
}

// Create stores a credential and reloads the list
func (s *CredentialSelector) Create(ctx context.Context, req types.CreateCredentialRequest) (*types.Credential, error) {
	if err := validateCredential(req); err != nil {
		return nil, err
	}

	cred, err := s.store.CreateCredential(ctx, req)
	s.observer.ActionSubmitted(Submission{View: ViewCredentials, Action: "create", Target: req.Name, Err: err, At: time.Now()})
	if err != nil {
		return nil, err
	}
	_, _ = s.Load(ctx)
	return cred, nil
}

// Delete removes a credential and reloads the list
func (s *CredentialSelector) Delete(ctx context.Context, id int) error {
	err := s.store.DeleteCredential(ctx, id)
	s.observer.ActionSubmitted(Submission{View: ViewCredentials, Action: "delete", Target: fmt.Sprint(id), Err: err, At: time.Now()})
	if err != nil {
		return err
	}
	_, _ = s.Load(ctx)
	return nil
}

// Select applies the credential with id to form
func (s *CredentialSelector) Select(id int, form *InstallToolsForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.items {
		if c.ID == id {
			form.SelectCredential(c)
			return nil
		}
	}
	vErr := &ValidationError{}
	vErr.add("credential_id", fmt.Sprintf("unknown credential %d", id))
	return vErr
}
