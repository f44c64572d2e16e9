package repository

import (
	"context"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/pkg/kvstore"
)

// ==================== CustomerRepository 客户仓库 ====================

// CustomerRepository 客户仓库接口
type CustomerRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id string) (bool, error)
	SaveAll(ctx context.Context, customers []model.Customer) error
	Initialized(ctx context.Context) (bool, error)
}

type customerRepository struct {
	db   kvstore.Tx
	coll collection[model.Customer]
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db kvstore.Tx) CustomerRepository {
	return &customerRepository{db: db, coll: collection[model.Customer]{key: KeyCustomers}}
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	return r.coll.load(ctx, r.db)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	customers, err := r.coll.load(ctx, r.db)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].ID == id {
			return &customers[i], nil
		}
	}
	return nil, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	customers, err := r.coll.load(ctx, r.db)
	if err != nil {
		return err
	}
	return r.coll.save(ctx, r.db, append(customers, *customer))
}

func (r *customerRepository) Delete(ctx context.Context, id string) (bool, error) {
	customers, err := r.coll.load(ctx, r.db)
	if err != nil {
		return false, err
	}
	kept, removed := removeWhere(customers, func(c model.Customer) bool { return c.ID == id })
	if removed == 0 {
		return false, nil
	}
	return true, r.coll.save(ctx, r.db, kept)
}

func (r *customerRepository) SaveAll(ctx context.Context, customers []model.Customer) error {
	return r.coll.save(ctx, r.db, customers)
}

func (r *customerRepository) Initialized(ctx context.Context) (bool, error) {
	return r.coll.exists(ctx, r.db)
}
