package repository

import (
	"context"
	"strings"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplaintRepository complaint storage
type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// ComplaintFilter narrows complaint listings. Empty fields are ignored.
type ComplaintFilter struct {
	Status   entity.ComplaintStatus
	Statuses []entity.ComplaintStatus
	// matches status=forwarded OR assigned_to=ForwardedOrAssignedTo
	ForwardedOrAssignedTo string
	// matches complaints whose notes mention any of these fragments
	NotesContainAny []string
	OrderByUpdated  bool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes frag match literally inside a LIKE pattern.
func escapeLike(frag string) string {
	return likeEscaper.Replace(frag)
}

// FindByID loads a complaint with its employee.
func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*entity.Complaint, error) {
	var c entity.Complaint
	err := conn(ctx, r.db).
		Preload("Employee").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// List pages through complaints.
func (r *ComplaintRepository) List(ctx context.Context, page, pageSize int, f ComplaintFilter) ([]entity.Complaint, int64, error) {
	var items []entity.Complaint
	var total int64

	query := conn(ctx, r.db).Model(&entity.Complaint{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	} else if len(f.Statuses) > 0 {
		query = query.Where("status IN ?", f.Statuses)
	}
	if f.ForwardedOrAssignedTo != "" {
		query = query.Where("status = ? OR assigned_to = ?", entity.ComplaintStatusForwarded, f.ForwardedOrAssignedTo)
	}
	if len(f.NotesContainAny) > 0 {
		ors := make([]string, 0, len(f.NotesContainAny))
		args := make([]interface{}, 0, len(f.NotesContainAny))
		for _, frag := range f.NotesContainAny {
			ors = append(ors, `resolution_notes LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(frag)+"%")
		}
		query = query.Where(strings.Join(ors, " OR "), args...)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date_submitted DESC"
	if f.OrderByUpdated {
		order = "last_updated DESC"
	}
	err := query.
		Preload("Employee").
		Order(order).
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// ListWithComponentReason returns every complaint carrying a component
// purchase reason, oldest first with id as tie-break.
func (r *ComplaintRepository) ListWithComponentReason(ctx context.Context) ([]entity.Complaint, error) {
	var items []entity.Complaint
	err := conn(ctx, r.db).
		Preload("Employee").
		Where("component_purchase_reason IS NOT NULL AND component_purchase_reason <> ''").
		Order("date_submitted ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *ComplaintRepository) Create(ctx context.Context, c *entity.Complaint) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(c).Error
}

// Save writes every column of the complaint, leaving associations untouched.
func (r *ComplaintRepository) Save(ctx context.Context, c *entity.Complaint) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(c).Error
}
