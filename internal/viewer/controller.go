package viewer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/HarshG200/neuron-edtech/internal/entitlement"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

// API is the slice of Client the controller consumes. Split out so tests can
// substitute a fake without the network.
type API interface {
	Subjects(ctx context.Context) ([]models.Subject, error)
	MySubscriptions(ctx context.Context) ([]models.Subscription, error)
	Materials(ctx context.Context, subjectID string) ([]models.Material, error)
}

// Navigator is navigation as seen from the controller: back to the catalog
// on a denial, or to sign-in when the token is gone.
type Navigator interface {
	ToCatalog()
	ToSignIn()
}

// Dashboard is the joined dashboard state: the catalog, the user's
// subscriptions with evaluated statuses, and the per-subject access map.
type Dashboard struct {
	Subjects      []models.Subject
	Subscriptions []models.Subscription
	Access        map[string]entitlement.Decision
}

// redirectDelay is how long the denial message stays on screen before the
// user is sent back to the catalog.
const redirectDelay = 2 * time.Second

// Controller drives the dashboard and viewer flows. It owns the single
// protection session for its viewer surface.
type Controller struct {
	api      API
	session  *Session
	notify   Notifier
	nav      Navigator
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	userMail string
	log      *slog.Logger
}

// NewController wires the controller for one signed-in user.
func NewController(api API, session *Session, notify Notifier, nav Navigator, userEmail string, log *slog.Logger) *Controller {
	return &Controller{
		api:      api,
		session:  session,
		notify:   notify,
		nav:      nav,
		now:      time.Now,
		sleep:    sleepCtx,
		userMail: userEmail,
		log:      log,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// LoadDashboard fetches the catalog and the user's subscriptions in parallel
// and computes the access map only after both have resolved. A cancelled
// context discards both results.
func (c *Controller) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	const op = "viewer.Controller.LoadDashboard"

	var (
		wg       sync.WaitGroup
		subjects []models.Subject
		subs     []models.Subscription
		subjErr  error
		subErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		subjects, subjErr = c.api.Subjects(ctx)
	}()
	go func() {
		defer wg.Done()
		subs, subErr = c.api.MySubscriptions(ctx)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(subjErr, subErr); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.nav.ToSignIn()
			return nil, ErrUnauthorized
		}
		c.log.Error("dashboard fetch failed", sl.Err(err))
		c.notify.Error("Could not load your dashboard. Please try again.")
		return nil, err
	}

	return &Dashboard{
		Subjects:      subjects,
		Subscriptions: subs,
		Access:        entitlement.ComputeAccess(subjects, subs, c.now()),
	}, nil
}

// MyPlans returns the user's subscriptions in display order with statuses.
func (c *Controller) MyPlans(ctx context.Context) ([]models.Subscription, []entitlement.Status, error) {
	subs, err := c.api.MySubscriptions(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.nav.ToSignIn()
		}
		return nil, nil, err
	}
	sorted := entitlement.SortForDisplay(subs)
	now := c.now()
	statuses := make([]entitlement.Status, len(sorted))
	for i, sub := range sorted {
		statuses[i] = entitlement.Classify(sub, now)
	}
	return sorted, statuses, nil
}

// LoadMaterials fetches a subject's material list for the viewer page. On a
// 403 it surfaces the server's reason, waits out the redirect delay and
// sends the user back to the catalog. The session is never opened on a
// denial.
func (c *Controller) LoadMaterials(ctx context.Context, subjectID string) ([]models.Material, error) {
	materials, err := c.api.Materials(ctx, subjectID)
	if err != nil {
		var forbidden *ForbiddenError
		switch {
		case errors.Is(err, context.Canceled):
			return nil, err
		case errors.Is(err, ErrUnauthorized):
			c.nav.ToSignIn()
			return nil, err
		case errors.As(err, &forbidden):
			c.log.Info("materials access denied",
				slog.String("subject_id", subjectID),
				slog.String("reason", forbidden.Reason))
			c.notify.Error(forbidden.Reason)
			if sleepErr := c.sleep(ctx, redirectDelay); sleepErr != nil {
				return nil, err
			}
			c.nav.ToCatalog()
			return nil, err
		default:
			c.log.Error("materials fetch failed", sl.Err(err))
			c.notify.Error("Could not load materials. Please try again.")
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		// The view is gone, do not apply the result.
		return nil, err
	}
	return materials, nil
}

// OpenMaterial starts the protection session for one material. Any session
// already open is fully closed first.
func (c *Controller) OpenMaterial(material models.Material) {
	c.session.Open(material, c.userMail)
}

// CloseMaterial tears the protection session down. Called from the explicit
// close action and from the hosting view's unmount path alike.
func (c *Controller) CloseMaterial() {
	c.session.Close()
}
