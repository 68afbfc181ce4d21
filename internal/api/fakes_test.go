package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

var errNotStubbed = errors.New("not stubbed")

// fakeTaskService implements service.TaskService with function fields.
type fakeTaskService struct {
	CreateFn  func(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error)
	GetFn     func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListFn    func(ctx context.Context, userID uuid.UUID, query domain.TaskQuery) (*domain.TaskPage, error)
	ListAllFn func(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)
	UpdateFn  func(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, userID, taskID uuid.UUID) error
}

var _ service.TaskService = (*fakeTaskService)(nil)

func (f *fakeTaskService) Create(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error) {
	if f.CreateFn == nil {
		return nil, errNotStubbed
	}
	return f.CreateFn(ctx, userID, title)
}

func (f *fakeTaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if f.GetFn == nil {
		return nil, errNotStubbed
	}
	return f.GetFn(ctx, userID, taskID)
}

func (f *fakeTaskService) List(ctx context.Context, userID uuid.UUID, query domain.TaskQuery) (*domain.TaskPage, error) {
	if f.ListFn == nil {
		return nil, errNotStubbed
	}
	return f.ListFn(ctx, userID, query)
}

func (f *fakeTaskService) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	if f.ListAllFn == nil {
		return nil, errNotStubbed
	}
	return f.ListAllFn(ctx, userID)
}

func (f *fakeTaskService) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if f.UpdateFn == nil {
		return nil, errNotStubbed
	}
	return f.UpdateFn(ctx, userID, taskID, patch)
}

func (f *fakeTaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if f.DeleteFn == nil {
		return errNotStubbed
	}
	return f.DeleteFn(ctx, userID, taskID)
}

// fakeAuthService implements service.AuthService with function fields.
type fakeAuthService struct {
	RegisterFn func(ctx context.Context, email, password string) (*service.AuthResult, error)
	LoginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	LogoutFn   func(ctx context.Context, sessionID uuid.UUID) error
	ProfileFn  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

var _ service.AuthService = (*fakeAuthService)(nil)

func (f *fakeAuthService) Register(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if f.RegisterFn == nil {
		return nil, errNotStubbed
	}
	return f.RegisterFn(ctx, email, password)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if f.LoginFn == nil {
		return nil, errNotStubbed
	}
	return f.LoginFn(ctx, email, password)
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if f.LogoutFn == nil {
		return errNotStubbed
	}
	return f.LogoutFn(ctx, sessionID)
}

func (f *fakeAuthService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if f.ProfileFn == nil {
		return nil, errNotStubbed
	}
	return f.ProfileFn(ctx, userID)
}

func (f *fakeAuthService) ResolveSession(context.Context, *auth.Claims) (*service.Principal, error) {
	return nil, errNotStubbed
}

// newAuthedRequest builds a request whose context carries the given caller,
// as the auth middleware would leave it.
func newAuthedRequest(method, target, body string, userID, sessionID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(shared.WithPrincipal(req.Context(), userID, sessionID))
}
