package model

// Customer 客户
type Customer struct {
	BaseModel
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewCustomer 创建客户记录
func NewCustomer(email, firstName, lastName string) Customer {
	return Customer{
		BaseModel: NewBaseModel(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
}

// CustomerChannel 客户-渠道关联（多对多）
// 客户没有任何关联 = 全局访问；有关联 = 仅限这些渠道
type CustomerChannel struct {
	BaseModel
	CustomerID string `json:"customer_id"`
	ChannelID  string `json:"channel_id"`
}

// NewCustomerChannel 创建关联记录
func NewCustomerChannel(customerID, channelID string) CustomerChannel {
	return CustomerChannel{
		BaseModel:  NewBaseModel(),
		CustomerID: customerID,
		ChannelID:  channelID,
	}
}

// AccessMode 客户访问模式
type AccessMode string

const (
	AccessModeGlobal  AccessMode = "global"
	AccessModeChannel AccessMode = "channel"
)
