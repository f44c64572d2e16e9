package adminclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/model"
)

// ==================== Client 管理后台 HTTP 客户端 ====================

// Client 管理后台 API 客户端
// 登录状态保存在服务端，客户端无需携带凭据
type Client struct {
	http *resty.Client
}

// Options 客户端参数
type Options struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// New 创建客户端
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetDebug(opts.Debug).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "channelctl/1.0")

	return &Client{http: c}
}

// ==================== 响应解析 ====================

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError 服务端返回的错误
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus 判断错误是否为指定 HTTP 状态
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("请求 %s %s 失败: %w", method, path, err)
	}

	var env envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return fmt.Errorf("解析响应失败 (status=%d): %w", resp.StatusCode(), err)
		}
	}

	if resp.IsError() || env.Code != 0 {
		msg := env.Message
		if msg == "" {
			msg = resp.Status()
		}
		return &APIError{Status: resp.StatusCode(), Code: env.Code, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("解析 data 失败: %w", err)
		}
	}
	return nil
}

// ==================== 登录 ====================

// Login 登录；email 或 password 为空时服务端使用演示默认值
func (c *Client) Login(ctx context.Context, email, password string) (*dto.SessionStatus, error) {
	var status dto.SessionStatus
	err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Status(ctx context.Context) (*dto.SessionStatus, error) {
	var status dto.SessionStatus
	if err := c.do(ctx, http.MethodGet, "/api/auth/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ==================== 渠道 ====================

func (c *Client) ListChannels(ctx context.Context, keyword string) ([]model.Channel, error) {
	var list []model.Channel
	if err := c.do(ctx, http.MethodGet, withKeyword("/api/channels", keyword), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AddChannel(ctx context.Context, name string, allowGlobalLogin bool) (*model.Channel, error) {
	var ch model.Channel
	req := dto.CreateChannelRequest{Name: name, AllowGlobalLogin: allowGlobalLogin}
	if err := c.do(ctx, http.MethodPost, "/api/channels", req, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/channels/"+url.PathEscape(id), nil, nil)
}

// ==================== 客户 ====================

func (c *Client) ListCustomers(ctx context.Context, keyword string) ([]dto.CustomerInfo, error) {
	var list []dto.CustomerInfo
	if err := c.do(ctx, http.MethodGet, withKeyword("/api/customers", keyword), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AddCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error) {
	var cu model.Customer
	if err := c.do(ctx, http.MethodPost, "/api/customers", req, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/customers/"+url.PathEscape(id), nil, nil)
}

// CanAccess 客户能否登录渠道
func (c *Client) CanAccess(ctx context.Context, customerID, channelID string) (*dto.AccessResult, error) {
	var res dto.AccessResult
	path := fmt.Sprintf("/api/customers/%s/access/%s", url.PathEscape(customerID), url.PathEscape(channelID))
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ==================== 维护 ====================

// Integrity prune 为 true 时同时清理悬空关联
func (c *Client) Integrity(ctx context.Context, prune bool) (*dto.IntegrityReport, error) {
	method, path := http.MethodGet, "/api/integrity"
	if prune {
		method, path = http.MethodPost, "/api/integrity/prune"
	}

	var report dto.IntegrityReport
	if err := c.do(ctx, method, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ExportSnapshot(ctx context.Context) (*dto.SnapshotInfo, error) {
	var info dto.SnapshotInfo
	if err := c.do(ctx, http.MethodPost, "/api/snapshots", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func withKeyword(path, keyword string) string {
	if keyword == "" {
		return path
	}
	return path + "?keyword=" + url.QueryEscape(keyword)
}
