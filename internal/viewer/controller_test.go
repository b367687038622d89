package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HarshG200/neuron-edtech/internal/entitlement"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

type APIMock struct {
	mock.Mock
}

func (m *APIMock) Subjects(ctx context.Context) ([]models.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subject), args.Error(1)
}

func (m *APIMock) MySubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *APIMock) Materials(ctx context.Context, subjectID string) ([]models.Material, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Material), args.Error(1)
}

type fakeNavigator struct {
	mu        sync.Mutex
	toCatalog int
	toSignIn  int
}

func (n *fakeNavigator) ToCatalog() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toCatalog++
}

func (n *fakeNavigator) ToSignIn() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toSignIn++
}

func newController(api API, session *Session, notify Notifier, nav Navigator) *Controller {
	c := NewController(api, session, notify, nav, "student@example.com", newNoopLogger())
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestController_LoadDashboard(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	subjects := []models.Subject{{ID: "bio", Price: 500, DurationMonths: 6, IsVisible: true}}

	t.Run("no subscriptions denies everything", func(t *testing.T) {
		api := new(APIMock)
		api.On("Subjects", mock.Anything).Return(subjects, nil).Once()
		api.On("MySubscriptions", mock.Anything).Return([]models.Subscription{}, nil).Once()

		c := newController(api, nil, &fakeNotifier{}, &fakeNavigator{})
		c.now = func() time.Time { return now }

		dash, err := c.LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entitlement.Denied, dash.Access["bio"])
	})

	t.Run("active subscription grants", func(t *testing.T) {
		api := new(APIMock)
		api.On("Subjects", mock.Anything).Return(subjects, nil).Once()
		api.On("MySubscriptions", mock.Anything).Return([]models.Subscription{{
			SubjectID:     "bio",
			PaymentStatus: models.PaymentStatusCompleted,
			EndDate:       now.AddDate(0, 5, 0),
		}}, nil).Once()

		c := newController(api, nil, &fakeNotifier{}, &fakeNavigator{})
		c.now = func() time.Time { return now }

		dash, err := c.LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entitlement.Granted, dash.Access["bio"])
	})

	t.Run("expired token redirects to sign-in", func(t *testing.T) {
		api := new(APIMock)
		api.On("Subjects", mock.Anything).Return(nil, ErrUnauthorized).Once()
		api.On("MySubscriptions", mock.Anything).Return([]models.Subscription{}, nil).Once()

		nav := &fakeNavigator{}
		c := newController(api, nil, &fakeNotifier{}, nav)

		_, err := c.LoadDashboard(context.Background())
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, 1, nav.toSignIn)
	})

	t.Run("fetch failure notifies without crashing", func(t *testing.T) {
		api := new(APIMock)
		api.On("Subjects", mock.Anything).Return(nil, errors.New("network down")).Once()
		api.On("MySubscriptions", mock.Anything).Return([]models.Subscription{}, nil).Once()

		notify := &fakeNotifier{}
		c := newController(api, nil, notify, &fakeNavigator{})

		dash, err := c.LoadDashboard(context.Background())
		require.Error(t, err)
		assert.Nil(t, dash)
		assert.NotEmpty(t, notify.errors)
	})
}

func TestController_LoadMaterials_Forbidden(t *testing.T) {
	api := new(APIMock)
	api.On("Materials", mock.Anything, "bio").
		Return(nil, &ForbiddenError{Reason: "No active subscription for this subject"}).Once()

	surface := newFakeSurface()
	session := NewSession(surface, &fakeNotifier{}, newNoopLogger())
	notify := &fakeNotifier{}
	nav := &fakeNavigator{}
	c := newController(api, session, notify, nav)

	materials, err := c.LoadMaterials(context.Background(), "bio")
	require.Error(t, err)
	assert.Nil(t, materials)

	// The denial is shown, the user is sent back, the session never opened.
	assert.Contains(t, notify.errors, "No active subscription for this subject")
	assert.Equal(t, 1, nav.toCatalog)
	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, 0, surface.Count())
}

func TestController_LoadMaterials_CancelledFetchIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := new(APIMock)
	api.On("Materials", mock.Anything, "bio").
		Run(func(args mock.Arguments) { cancel() }).
		Return([]models.Material{{ID: "m1"}}, nil).Once()

	nav := &fakeNavigator{}
	c := newController(api, nil, &fakeNotifier{}, nav)

	materials, err := c.LoadMaterials(ctx, "bio")
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, materials, "result must not be applied after cancellation")
}

func TestController_OpenAndCloseMaterial(t *testing.T) {
	surface := newFakeSurface()
	session := NewSession(surface, &fakeNotifier{}, newNoopLogger())
	c := newController(new(APIMock), session, &fakeNotifier{}, &fakeNavigator{})

	c.OpenMaterial(pdfMaterial)
	assert.Equal(t, StateOpen, session.State())
	assert.Equal(t, "student@example.com", surface.watermark)

	c.CloseMaterial()
	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, 0, surface.Count())
}
