package admin

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is how timestamps are shown in tables.
const dateLayout = "2006-01-02 15:04"

// Entity is a row of an admin list.
type Entity interface {
	// Key is the stable identifier of the row.
	Key() string
	// Row returns one cell per column of the owning resource.
	Row() []string
}

// Role is the access role of a user account.
type Role string

// Known roles.
const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// User is an account of the restaurant system.
type User struct {
	ID        string    `json:"id"        yaml:"id"`
	Name      string    `json:"name"      yaml:"name"`
	Email     string    `json:"email"     yaml:"email"`
	Phone     string    `json:"phone"     yaml:"phone,omitempty"`
	Role      Role      `json:"role"      yaml:"role"`
	Active    bool      `json:"active"    yaml:"active"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Key implements Entity.
func (u User) Key() string { return u.ID }

// Row implements Entity.
func (u User) Row() []string {
	return []string{u.Name, u.Email, string(u.Role), yesNo(u.Active), formatTime(u.CreatedAt)}
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order statuses, in lifecycle order.
const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderServed    OrderStatus = "served"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a table order.
type Order struct {
	ID           string          `json:"id"                    yaml:"id"`
	TableNumber  int             `json:"tableNumber"           yaml:"tableNumber"`
	CustomerName string          `json:"customerName"          yaml:"customerName,omitempty"`
	Status       OrderStatus     `json:"status"                yaml:"status"`
	Total        decimal.Decimal `json:"total"                 yaml:"total"`
	ItemCount    int             `json:"itemCount"             yaml:"itemCount"`
	VoucherCode  string          `json:"voucherCode,omitempty" yaml:"voucherCode,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"             yaml:"createdAt"`
}

// Key implements Entity.
func (o Order) Key() string { return o.ID }

// Row implements Entity.
func (o Order) Row() []string {
	return []string{
		o.ID,
		strconv.Itoa(o.TableNumber),
		o.CustomerName,
		string(o.Status),
		FormatCount(o.ItemCount),
		FormatMoney(o.Total),
		formatTime(o.CreatedAt),
	}
}

// Voucher is a discount code.
type Voucher struct {
	ID              string          `json:"id"              yaml:"id"`
	Code            string          `json:"code"            yaml:"code"`
	DiscountPercent decimal.Decimal `json:"discountPercent" yaml:"discountPercent"`
	MaxDiscount     decimal.Decimal `json:"maxDiscount"     yaml:"maxDiscount"`
	UsageLimit      int             `json:"usageLimit"      yaml:"usageLimit"`
	UsedCount       int             `json:"usedCount"       yaml:"usedCount"`
	ExpiresAt       time.Time       `json:"expiresAt"       yaml:"expiresAt"`
	Active          bool            `json:"active"          yaml:"active"`
}

// Key implements Entity.
func (v Voucher) Key() string { return v.ID }

// Row implements Entity.
func (v Voucher) Row() []string {
	return []string{
		v.Code,
		FormatPercent(v.DiscountPercent),
		FormatMoney(v.MaxDiscount),
		v.Usage(),
		formatTime(v.ExpiresAt),
		yesNo(v.Active),
	}
}

// Usage returns "used/limit", or just the used count for unlimited vouchers.
func (v Voucher) Usage() string {
	if v.UsageLimit <= 0 {
		return FormatCount(v.UsedCount)
	}
	return FormatCount(v.UsedCount) + "/" + FormatCount(v.UsageLimit)
}

// Expired reports whether the voucher can no longer be redeemed at now.
func (v Voucher) Expired(now time.Time) bool {
	if !v.ExpiresAt.IsZero() && !now.Before(v.ExpiresAt) {
		return true
	}
	return v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit
}

// Discount returns the discount granted on amount, capped at MaxDiscount when set.
func (v Voucher) Discount(amount decimal.Decimal) decimal.Decimal {
	d := amount.Mul(v.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	if v.MaxDiscount.IsPositive() && d.GreaterThan(v.MaxDiscount) {
		return v.MaxDiscount
	}
	return d
}

// Dish is a menu item.
type Dish struct {
	ID        string          `json:"id"        yaml:"id"`
	Name      string          `json:"name"      yaml:"name"`
	Category  string          `json:"category"  yaml:"category"`
	Price     decimal.Decimal `json:"price"     yaml:"price"`
	Available bool            `json:"available" yaml:"available"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt"`
}

// Key implements Entity.
func (d Dish) Key() string { return d.ID }

// Row implements Entity.
func (d Dish) Row() []string {
	return []string{d.Name, d.Category, FormatMoney(d.Price), yesNo(d.Available)}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
