// Package models содержит доменные структуры сервиса: клиентов, подписки,
// платежи, а также вспомогательные типы для приёма данных из внешних
// источников (например, JSON-запросов).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client представляет клиента мастерской. Контактные поля могут быть
// пустыми, Balance хранит текущий баланс клиента с двумя знаками.
type Client struct {
	ID        int
	FirstName string
	LastName  string
	Phone     string
	Mobile    string
	Email     string
	Comment   string
	Balance   decimal.Decimal
}

// FullName возвращает полное имя клиента в формате "<фамилия> <имя>".
func (c *Client) FullName() string {
	return c.LastName + " " + c.FirstName
}

// Landline возвращает стационарный телефон клиента или "N/A".
func (c *Client) Landline() string {
	if c.Phone == "" {
		return "N/A"
	}
	return c.Phone
}

// MobilePhone возвращает мобильный телефон клиента или "N/A".
func (c *Client) MobilePhone() string {
	if c.Mobile == "" {
		return "N/A"
	}
	return c.Mobile
}

// SubscriptionType тип подписки, на который ссылаются подписки клиентов.
type SubscriptionType struct {
	ID          int
	Description string
}

// Subscription подписка клиента. CreateDate выставляется при первом
// сохранении и больше не перезаписывается. TermStart и TermMonths —
// рабочий срок подписки, обновляется операцией продления.
type Subscription struct {
	ID          int
	ClientID    int
	TypeID      int
	Description string
	CreateDate  time.Time
	TermStart   *time.Time
	TermMonths  int
}

// Durations допустимые длительности платежа в месяцах.
var Durations = []int{1, 3, 6, 12, 24}

// Payment платёж по подписке. ClientID — денормализованная ссылка на
// клиента подписки, PaidUntil — производное поле, оба пересчитываются
// при каждом сохранении и не принимаются от вызывающей стороны.
type Payment struct {
	ID             int
	SubscriptionID int
	ClientID       int
	DurationMonths int
	Amount         decimal.Decimal
	PaidOn         time.Time
	PaidUntil      time.Time
}

// ExpiringSubscription сообщение для очереди уведомлений об истекающей
// подписке. Содержит всё, что нужно отправителю для построения письма.
type ExpiringSubscription struct {
	Email          string          `json:"email"`
	ClientName     string          `json:"client_name"`
	Description    string          `json:"description"`
	Label          string          `json:"label"`
	ExpirationDate time.Time       `json:"expiration_date"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	DaysLeft       int             `json:"days_left"`
}

// User учётная запись сотрудника для доступа к API.
type User struct {
	ID           int
	UID          string
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// DummyClient используется для приёма данных клиента из JSON-запроса.
type DummyClient struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,max=14"`
	Mobile    string `json:"mobile" validate:"omitempty,max=14"`
	Email     string `json:"email" validate:"omitempty,email"`
	Comment   string `json:"comment" validate:"omitempty,max=300"`
}

// DummySubscriptionType используется для приёма типа подписки из JSON-запроса.
type DummySubscriptionType struct {
	Description string `json:"description" validate:"required,max=50"`
}

// DummySubscription используется для приёма данных подписки из JSON-запроса.
type DummySubscription struct {
	ClientID    int    `json:"client_id" validate:"required"`
	TypeID      int    `json:"type_id" validate:"required"`
	Description string `json:"description" validate:"required,max=50"`
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
// Дата приходит строкой в формате 02-01-2006. PaidUntil не принимается:
// поле всегда выводится из paid_on и длительности.
type DummyPayment struct {
	SubscriptionID int    `json:"subscription_id" validate:"required"`
	DurationMonths int    `json:"duration_months" validate:"required,oneof=1 3 6 12 24"`
	Amount         string `json:"amount" validate:"required"`
	PaidOn         string `json:"paid_on" validate:"required,datetime=02-01-2006"`
}

// DummyRenewal используется для приёма параметров продления подписки.
// Months == 0 означает «использовать текущий срок подписки».
type DummyRenewal struct {
	Months   int  `json:"months" validate:"omitempty,oneof=1 3 6 12 24"`
	StartNow bool `json:"start_now"`
}

// DummyRegister используется для приёма данных регистрации пользователя.
type DummyRegister struct {
	Username string `json:"username" validate:"required,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных входа пользователя.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}
