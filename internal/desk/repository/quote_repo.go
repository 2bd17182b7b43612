package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteRepository quote requests, vendor selections and responses
type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// FindRequest loads a request with its selections and responses.
func (r *QuoteRepository) FindRequest(ctx context.Context, id string) (*entity.QuoteRequest, error) {
	var qr entity.QuoteRequest
	err := conn(ctx, r.db).
		Preload("VendorSelections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_date ASC")
		}).
		Preload("VendorSelections.Vendor").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("submitted_at ASC")
		}).
		Preload("Responses.Vendor").
		Where("id = ?", id).
		First(&qr).Error
	if err != nil {
		return nil, translate(err)
	}
	return &qr, nil
}

// ListRequests filters: status, created_by, vendor_id, search.
func (r *QuoteRepository) ListRequests(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.QuoteRequest, int64, error) {
	var items []entity.QuoteRequest
	var total int64

	query := conn(ctx, r.db).Model(&entity.QuoteRequest{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if createdBy := filters["created_by"]; createdBy != "" {
		query = query.Where("created_by_id = ?", createdBy)
	}
	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("id IN (?)",
			conn(ctx, r.db).Model(&entity.VendorSelection{}).Select("quote_request_id").Where("vendor_id = ?", vendorID))
	}
	if search := filters["search"]; search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("VendorSelections").
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *QuoteRepository) CreateRequest(ctx context.Context, qr *entity.QuoteRequest) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(qr).Error
}

// SaveRequest writes the request's own columns and bumps its version.
func (r *QuoteRepository) SaveRequest(ctx context.Context, qr *entity.QuoteRequest) error {
	expected := qr.Version
	qr.Version++
	res := conn(ctx, r.db).
		Model(qr).
		Where("version = ?", expected).
		Select("title", "description", "requirements", "budget", "priority", "status", "due_date", "completed_date", "version").
		Updates(qr)
	if res.Error != nil {
		qr.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		qr.Version = expected
		return ErrVersionConflict
	}
	return nil
}

// TransitionRequest moves a request from one of the given states to `to`.
// Returns ErrVersionConflict when the row is no longer in any of them.
func (r *QuoteRepository) TransitionRequest(ctx context.Context, id string, from []entity.QuoteRequestStatus, to entity.QuoteRequestStatus) error {
	res := conn(ctx, r.db).
		Model(&entity.QuoteRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":  to,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// FulfilRequest marks the request fulfilled if it is still at the given
// version and accepting bids.
func (r *QuoteRepository) FulfilRequest(ctx context.Context, id string, version int, completedAt time.Time) error {
	res := conn(ctx, r.db).
		Model(&entity.QuoteRequest{}).
		Where("id = ? AND version = ? AND status IN ?", id, version,
			[]entity.QuoteRequestStatus{entity.QuoteRequestStatusOpen, entity.QuoteRequestStatusPending}).
		Updates(map[string]interface{}{
			"status":         entity.QuoteRequestStatusFulfilled,
			"completed_date": completedAt,
			"version":        gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// DeleteRequest removes the request with its selections and responses.
func (r *QuoteRepository) DeleteRequest(ctx context.Context, id string) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_request_id = ?", id).Delete(&entity.QuoteResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_request_id = ?", id).Delete(&entity.VendorSelection{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entity.QuoteRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// === vendor selections ===

func (r *QuoteRepository) FindSelection(ctx context.Context, requestID, vendorID string) (*entity.VendorSelection, error) {
	var sel entity.VendorSelection
	err := conn(ctx, r.db).
		Preload("Vendor").
		Where("quote_request_id = ? AND vendor_id = ?", requestID, vendorID).
		First(&sel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sel, nil
}

func (r *QuoteRepository) FindSelectionByID(ctx context.Context, id string) (*entity.VendorSelection, error) {
	var sel entity.VendorSelection
	err := conn(ctx, r.db).Where("id = ?", id).First(&sel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sel, nil
}

// CreateSelection inserts the selection unless (request, vendor) already
// exists, and returns the stored row either way.
func (r *QuoteRepository) CreateSelection(ctx context.Context, sel *entity.VendorSelection) (*entity.VendorSelection, error) {
	err := conn(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quote_request_id"}, {Name: "vendor_id"}},
			DoNothing: true,
		}).
		Create(sel).Error
	if err != nil {
		return nil, err
	}
	return r.FindSelection(ctx, sel.QuoteRequestID, sel.VendorID)
}

// MarkResponded flags the vendor's selection as answered.
func (r *QuoteRepository) MarkResponded(ctx context.Context, requestID, vendorID string) error {
	return conn(ctx, r.db).
		Model(&entity.VendorSelection{}).
		Where("quote_request_id = ? AND vendor_id = ?", requestID, vendorID).
		Update("has_responded", true).Error
}

func (r *QuoteRepository) DeleteSelection(ctx context.Context, id string) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.VendorSelection{}).Error
}

// === responses ===

func (r *QuoteRepository) FindResponse(ctx context.Context, requestID, vendorID string) (*entity.QuoteResponse, error) {
	var resp entity.QuoteResponse
	err := conn(ctx, r.db).
		Where("quote_request_id = ? AND vendor_id = ?", requestID, vendorID).
		First(&resp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &resp, nil
}

// FindResponseByID loads a response with its vendor and request.
func (r *QuoteRepository) FindResponseByID(ctx context.Context, id string) (*entity.QuoteResponse, error) {
	var resp entity.QuoteResponse
	err := conn(ctx, r.db).
		Preload("Vendor").
		Preload("QuoteRequest").
		Where("id = ?", id).
		First(&resp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &resp, nil
}

func (r *QuoteRepository) CreateResponse(ctx context.Context, resp *entity.QuoteResponse) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(resp).Error
}

func (r *QuoteRepository) SaveResponse(ctx context.Context, resp *entity.QuoteResponse) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(resp).Error
}

func (r *QuoteRepository) ListResponses(ctx context.Context, requestID string) ([]entity.QuoteResponse, error) {
	var items []entity.QuoteResponse
	err := conn(ctx, r.db).
		Preload("Vendor").
		Where("quote_request_id = ?", requestID).
		Order("submitted_at ASC").
		Find(&items).Error
	return items, err
}

func (r *QuoteRepository) ListResponsesByVendor(ctx context.Context, vendorID string) ([]entity.QuoteResponse, error) {
	var items []entity.QuoteResponse
	err := conn(ctx, r.db).
		Preload("QuoteRequest").
		Where("vendor_id = ?", vendorID).
		Order("submitted_at DESC").
		Find(&items).Error
	return items, err
}

// CountAccepted counts accepted responses on a request.
func (r *QuoteRepository) CountAccepted(ctx context.Context, requestID string) (int64, error) {
	var n int64
	err := conn(ctx, r.db).
		Model(&entity.QuoteResponse{}).
		Where("quote_request_id = ? AND status = ?", requestID, entity.QuoteResponseStatusAccepted).
		Count(&n).Error
	return n, err
}
