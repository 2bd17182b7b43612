package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService records in-app notifications and fans them out.
type NotificationService struct {
	store     NotificationStore
	users     UserDirectory
	logger    *zap.Logger
	publisher Publisher
	counter   UnreadCounter
	now       func() time.Time
}

func NewNotificationService(store NotificationStore, users UserDirectory, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		store:  store,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// SetPublisher enables real-time delivery.
func (s *NotificationService) SetPublisher(p Publisher) {
	s.publisher = p
}

// SetUnreadCounter enables the unread count cache.
func (s *NotificationService) SetUnreadCounter(c UnreadCounter) {
	s.counter = c
}

// Record stores a notification without any fan-out. Callers inside a
// transaction publish after commit.
func (s *NotificationService) Record(ctx context.Context, userID, message, typ string, relatedID *string) (*entity.Notification, error) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		metrics.RecordNotification(typ, "failed")
		return nil, persistence("create notification", err)
	}
	metrics.RecordNotification(typ, "sent")
	return n, nil
}

// RecordForEmail stores a notification for the account registered under
// email. Returns ErrNoRecipient when there is none.
func (s *NotificationService) RecordForEmail(ctx context.Context, email, message, typ string, relatedID *string) (*entity.Notification, error) {
	if email == "" {
		metrics.RecordNotification(typ, "skipped")
		return nil, ErrNoRecipient
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordNotification(typ, "skipped")
			return nil, ErrNoRecipient
		}
		return nil, persistence("find user by email", err)
	}
	return s.Record(ctx, user.ID, message, typ, relatedID)
}

// Notify stores and publishes one notification.
func (s *NotificationService) Notify(ctx context.Context, userID, message, typ string, relatedID *string) (*entity.Notification, error) {
	n, err := s.Record(ctx, userID, message, typ, relatedID)
	if err != nil {
		return nil, err
	}
	s.Publish(n)
	return n, nil
}

// NotifyRole notifies every active user holding role. A failed recipient is
// logged and skipped; only a failed user lookup is returned.
func (s *NotificationService) NotifyRole(ctx context.Context, role entity.Role, message, typ string, relatedID *string) ([]*entity.Notification, error) {
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, persistence("list users by role", err)
	}

	sent := make([]*entity.Notification, 0, len(users))
	for _, u := range users {
		n, err := s.Notify(ctx, u.ID, message, typ, relatedID)
		if err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("user_id", u.ID),
				zap.String("type", typ),
				zap.Error(err))
			continue
		}
		sent = append(sent, n)
	}
	return sent, nil
}

// Publish drops the recipient's cached unread count and pushes n to live
// clients. The row is already committed, so the next count is a recount.
func (s *NotificationService) Publish(n *entity.Notification) {
	if n == nil {
		return
	}
	s.invalidate(context.Background(), n.UserID)
	if s.publisher != nil {
		go s.publisher.PublishNotification(n)
	}
}

// === inbox ===

func (s *NotificationService) List(ctx context.Context, actor Actor, page, pageSize int, unreadOnly bool) ([]entity.Notification, int64, error) {
	items, total, err := s.store.ListForUser(ctx, actor.ID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, 0, persistence("list notifications", err)
	}
	return items, total, nil
}

// UnreadCount serves from the cache when it has the value.
func (s *NotificationService) UnreadCount(ctx context.Context, actor Actor) (int64, error) {
	if s.counter != nil {
		if n, ok, err := s.counter.Get(ctx, actor.ID); err == nil && ok {
			return n, nil
		} else if err != nil {
			s.logger.Debug("unread counter get failed", zap.String("user_id", actor.ID), zap.Error(err))
		}
	}

	n, err := s.store.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, persistence("count unread notifications", err)
	}
	if s.counter != nil {
		if err := s.counter.Set(ctx, actor.ID, n); err != nil {
			s.logger.Debug("unread counter set failed", zap.String("user_id", actor.ID), zap.Error(err))
		}
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) (*entity.Notification, error) {
	n, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkRead(ctx, id); err != nil {
		return nil, persistence("mark notification read", err)
	}
	n.Read = true
	s.invalidate(ctx, actor.ID)
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	count, err := s.store.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, persistence("mark all notifications read", err)
	}
	s.invalidate(ctx, actor.ID)
	return count, nil
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return persistence("delete notification", err)
	}
	s.invalidate(ctx, actor.ID)
	return nil
}

func (s *NotificationService) owned(ctx context.Context, actor Actor, id string) (*entity.Notification, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "notification", id)
	}
	if err := authorizeOwner(actor, policy.NotificationManage, n.UserID); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) invalidate(ctx context.Context, userID string) {
	if s.counter == nil {
		return
	}
	if err := s.counter.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("unread counter invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
