package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// ==================== CustomerService 客户服务 ====================

// CustomerService 客户服务
type CustomerService struct {
	uow    *repository.UnitOfWork
	logger *zap.Logger
}

// NewCustomerService 创建客户服务
func NewCustomerService(uow *repository.UnitOfWork, logger *zap.Logger) *CustomerService {
	return &CustomerService{uow: uow, logger: logger}
}

// AddCustomer 新增客户，并按顺序为每个渠道 ID 建一条关联
// 渠道 ID 不去重、不校验是否存在，悬空关联由完整性检查发现
func (s *CustomerService) AddCustomer(ctx context.Context, email, firstName, lastName string, channelIDs []string) (*model.Customer, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, ErrCustomerFieldsRequired
	}

	customer := model.NewCustomer(email, firstName, lastName)
	links := make([]model.CustomerChannel, 0, len(channelIDs))
	for _, chID := range channelIDs {
		links = append(links, model.NewCustomerChannel(customer.ID, chID))
	}

	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		if err := tx.Customers.Create(ctx, &customer); err != nil {
			return err
		}
		return tx.Links.CreateBatch(ctx, links)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer added",
		zap.String("customer_id", customer.ID),
		zap.Int("channels", len(links)))
	return &customer, nil
}

// DeleteCustomer 删除客户并级联删除其关联
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	var removed bool
	var unlinked int

	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		ok, err := tx.Customers.Delete(ctx, id)
		if err != nil || !ok {
			return err
		}
		unlinked, err = tx.Links.DeleteByCustomerID(ctx, id)
		if err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Info("customer deleted", zap.String("customer_id", id), zap.Int("links_removed", unlinked))
	}
	return removed, nil
}

// ListWithChannels 客户列表附带渠道 ID；无关联时 channel_ids 为 null
// keyword 匹配邮箱、名、姓（不区分大小写）
func (s *CustomerService) ListWithChannels(ctx context.Context, keyword string) ([]dto.CustomerInfo, error) {
	customers, err := s.uow.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.uow.Links.List(ctx)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[string][]string)
	for _, l := range links {
		byCustomer[l.CustomerID] = append(byCustomer[l.CustomerID], l.ChannelID)
	}

	kw := strings.ToLower(keyword)
	list := make([]dto.CustomerInfo, 0, len(customers))
	for _, c := range customers {
		if kw != "" && !matchCustomer(c, kw) {
			continue
		}
		list = append(list, dto.CustomerInfo{
			Customer:   c,
			ChannelIDs: byCustomer[c.ID],
		})
	}
	return list, nil
}

// GetCustomer 获取单个客户及其渠道
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerInfo, error) {
	customer, err := s.uow.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	links, err := s.uow.Links.ListByCustomerID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := &dto.CustomerInfo{Customer: *customer}
	for _, l := range links {
		info.ChannelIDs = append(info.ChannelIDs, l.ChannelID)
	}
	return info, nil
}

func matchCustomer(c model.Customer, kw string) bool {
	return strings.Contains(strings.ToLower(c.Email), kw) ||
		strings.Contains(strings.ToLower(c.FirstName), kw) ||
		strings.Contains(strings.ToLower(c.LastName), kw)
}

// ==================== 错误定义 ====================

var (
	ErrCustomerFieldsRequired = errors.New("email, first name, and last name are required")
	ErrCustomerNotFound       = errors.New("customer not found")
)
