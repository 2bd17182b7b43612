package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/desk/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)

type deskEnv struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	repos *repository.Repositories
	svc   *Services
	clock time.Time
}

func setupDesk(t *testing.T) *deskEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	env := &deskEnv{
		t:     t,
		ctx:   context.Background(),
		db:    db,
		repos: repos,
		clock: fixedNow,
	}
	env.svc = NewServices(repos, zap.NewNop())
	env.pinClock()
	return env
}

// rewire rebuilds the services with replacement stores.
func (e *deskEnv) rewire(notifications NotificationStore, complaints ComplaintStore) {
	if notifications == nil {
		notifications = e.repos.Notification
	}
	if complaints == nil {
		complaints = e.repos.Complaint
	}
	logger := zap.NewNop()
	ns := NewNotificationService(notifications, e.repos.User, logger)
	cs := NewComplaintService(complaints, ns, logger)
	lk := NewLinker(complaints, cs, ns, e.repos.Tx, logger)
	qs := NewQuoteService(e.repos.Quote, e.repos.Vendor, complaints, cs, lk, ns, e.repos.Tx, logger)
	e.svc = &Services{Notification: ns, Complaint: cs, Quote: qs, Linker: lk}
	e.pinClock()
}

func (e *deskEnv) pinClock() {
	now := func() time.Time { return e.clock }
	e.svc.Notification.now = now
	e.svc.Complaint.now = now
	e.svc.Linker.now = now
	e.svc.Quote.now = now
}

func (e *deskEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func actorOf(u *entity.User) Actor {
	return Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (e *deskEnv) reloadComplaint(id string) *entity.Complaint {
	e.t.Helper()
	c, err := e.repos.Complaint.FindByID(e.ctx, id)
	require.NoError(e.t, err)
	return c
}

func (e *deskEnv) reloadRequest(id string) *entity.QuoteRequest {
	e.t.Helper()
	qr, err := e.repos.Quote.FindRequest(e.ctx, id)
	require.NoError(e.t, err)
	return qr
}

func (e *deskEnv) notificationsFor(userID string) []entity.Notification {
	e.t.Helper()
	var items []entity.Notification
	require.NoError(e.t, e.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error)
	return items
}

// staff seeds one account per internal role.
type staff struct {
	ats, ats2, assistant, manager, admin *entity.User
}

func (e *deskEnv) seedStaff() staff {
	return staff{
		ats:       testutil.SeedUser(e.t, e.db, "u-ats-1", "ats1@corp.test", entity.RoleATS),
		ats2:      testutil.SeedUser(e.t, e.db, "u-ats-2", "ats2@corp.test", entity.RoleATS),
		assistant: testutil.SeedUser(e.t, e.db, "u-am-1", "am@corp.test", entity.RoleAssistantManager),
		manager:   testutil.SeedUser(e.t, e.db, "u-mgr-1", "mgr@corp.test", entity.RoleManager),
		admin:     testutil.SeedUser(e.t, e.db, "u-admin-1", "admin@corp.test", entity.RoleAdmin),
	}
}

// failingNotifications rejects every insert.
type failingNotifications struct {
	*repository.NotificationRepository
}

func (failingNotifications) Create(context.Context, *entity.Notification) error {
	return errTestStore
}

// failingComplaintSaves rejects every complaint write.
type failingComplaintSaves struct {
	*repository.ComplaintRepository
}

func (failingComplaintSaves) Save(context.Context, *entity.Complaint) error {
	return errTestStore
}

var errTestStore = errors.New("store unavailable")
