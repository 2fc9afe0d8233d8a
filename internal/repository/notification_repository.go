package repository

import (
	"context"
	"ecolearn_backend/internal/model"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// NotificationRepository persists notifications in MySQL and keeps the
// per-user unread counter in redis so the badge in the navigation chrome
// does not hit the database on every page.
type NotificationRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

const unreadCountTTL = 5 * time.Minute

func NewNotificationRepository(db *gorm.DB, rdb *redis.Client) *NotificationRepository {
	return &NotificationRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("notif:unread:%d", userID)
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	err := r.DB.Create(n).Error
	if err == nil && r.Redis != nil {
		r.Redis.Del(r.ctx, unreadCountKey(n.UserID))
	}
	return err
}

func (r *NotificationRepository) List(userID uint, unreadOnly bool, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	q := r.DB.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("`read` = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.First(&n, id).Error
	return &n, err
}

func (r *NotificationRepository) MarkRead(n *model.Notification) error {
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	err := r.DB.Save(n).Error
	if err == nil && r.Redis != nil {
		r.Redis.Del(r.ctx, unreadCountKey(n.UserID))
	}
	return err
}

// UnreadCount serves from the redis counter when warm, falling back to a
// database count and re-priming the cache.
func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	if r.Redis != nil {
		if val, err := r.Redis.Get(r.ctx, unreadCountKey(userID)).Result(); err == nil {
			if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.Redis != nil {
		r.Redis.Set(r.ctx, unreadCountKey(userID), count, unreadCountTTL)
	}
	return count, nil
}
