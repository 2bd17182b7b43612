package repository

import (
	"context"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"gorm.io/gorm"
)

// NotificationRepository in-app notifications
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return conn(ctx, r.db).Create(n).Error
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	var n entity.Notification
	if err := conn(ctx, r.db).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// ListForUser pages through a user's notifications, newest first.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]entity.Notification, int64, error) {
	var items []entity.Notification
	var total int64

	query := conn(ctx, r.db).Model(&entity.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := conn(ctx, r.db).
		Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return conn(ctx, r.db).
		Model(&entity.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// MarkAllRead returns the number of notifications flipped.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := conn(ctx, r.db).
		Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Notification{}).Error
}
