package service

import (
	"context"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// AccessService 判定客户能否登录某个渠道
type AccessService struct {
	uow *repository.UnitOfWork
}

// NewAccessService 创建访问判定服务
func NewAccessService(uow *repository.UnitOfWork) *AccessService {
	return &AccessService{uow: uow}
}

// CanAccess 无关联的客户只能进入允许全局登录的渠道；有关联的客户只能进入已关联的渠道
func (s *AccessService) CanAccess(ctx context.Context, customerID, channelID string) (*dto.AccessResult, error) {
	customer, err := s.uow.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	channel, err := s.uow.Channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	links, err := s.uow.Links.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := &dto.AccessResult{CustomerID: customerID, ChannelID: channelID}
	if len(links) == 0 {
		result.Mode = model.AccessModeGlobal
		result.Allowed = channel.AllowGlobalLogin
		return result, nil
	}

	result.Mode = model.AccessModeChannel
	for _, l := range links {
		if l.ChannelID == channelID {
			result.Allowed = true
			break
		}
	}
	return result, nil
}
