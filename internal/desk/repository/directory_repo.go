package repository

import (
	"context"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"gorm.io/gorm"
)

// UserRepository login accounts
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	if err := conn(ctx, r.db).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ListByRole returns active users holding the role.
func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var users []entity.User
	err := conn(ctx, r.db).
		Where("role = ? AND is_active = ?", role, true).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return conn(ctx, r.db).Create(u).Error
}

// EmployeeRepository staff records
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	var e entity.Employee
	if err := conn(ctx, r.db).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	return conn(ctx, r.db).Create(e).Error
}

// VendorRepository suppliers
type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) FindByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := conn(ctx, r.db).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *VendorRepository) FindByEmail(ctx context.Context, email string) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := conn(ctx, r.db).Where("email = ?", email).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *VendorRepository) Create(ctx context.Context, v *entity.Vendor) error {
	return conn(ctx, r.db).Create(v).Error
}
