package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"displayName"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusDeclined   OrderStatus = "DECLINED"
)

// OrderStatuses lists every status in presentation order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
	StatusDeclined,
}

var statusMeta = map[OrderStatus]struct {
	displayName string
	color       string
}{
	StatusPending:    {"Pending", "#f59e0b"},
	StatusProcessing: {"Processing", "#3b82f6"},
	StatusCompleted:  {"Completed", "#10b981"},
	StatusCancelled:  {"Cancelled", "#ef4444"},
	StatusDeclined:   {"Declined", "#dc2626"},
}

func (s OrderStatus) DisplayName() string { return statusMeta[s].displayName }

func (s OrderStatus) Color() string { return statusMeta[s].color }

// ParseOrderStatus matches a textual status value case-insensitively against
// the fixed enumeration.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := statusMeta[status]
	return status, ok
}

type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	OrderAmount  float64     `json:"orderAmount"`
	OrderDate    time.Time   `json:"orderDate"`
	DocumentURL  string      `json:"documentUrl"`
	Status       OrderStatus `json:"status"`
}
