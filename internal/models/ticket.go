package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeviceType тип устройства (ноутбук, телефон и т.д.), метка уникальна.
type DeviceType struct {
	ID   int
	Type string
}

// DeviceModel модель устройства.
type DeviceModel struct {
	ID   int
	Name string
}

// Device устройство клиента, по которому открываются заявки.
type Device struct {
	ID           int
	ClientID     int
	ModelID      *int
	TypeID       int
	SerialNumber string
	Description  string
	Comment      string
}

// TicketStatus статус заявки, метка уникальна.
type TicketStatus struct {
	ID     int
	Status string
	Label  string
}

// Ticket заявка на ремонт устройства клиента. AdmissionDate выставляется
// хранилищем при создании, DischargeDate — при выдаче устройства.
type Ticket struct {
	ID            int
	ClientID      int
	DeviceID      int
	StatusID      int
	AdmissionDate time.Time
	DischargeDate *time.Time
	Delivered     bool
	Problem       string
	Diagnosis     string
	Actions       string
	WorkCharge    decimal.Decimal
}

// DischargeFullDate возвращает дату выдачи в формате 02-01-2006 или "N/A".
func (t *Ticket) DischargeFullDate() string {
	if t.DischargeDate == nil {
		return "N/A"
	}
	return t.DischargeDate.Format("02-01-2006")
}

// Charge стоимость запчасти, использованной в заявке.
type Charge struct {
	ID           int
	TicketID     int
	PartID       int
	Charge       decimal.Decimal
	SerialNumber string
}

// Part запчасть со склада.
type Part struct {
	ID   int
	Name string
}

// ChargeLine строка списка запчастей заявки с именем запчасти.
type ChargeLine struct {
	PartName     string
	Charge       decimal.Decimal
	SerialNumber string
}

// TicketReport агрегат заявки для печатной формы: клиент, устройство,
// статус и запчасти одной выборкой.
type TicketReport struct {
	Ticket  Ticket
	Client  Client
	Device  Device
	Model   string
	Type    string
	Status  TicketStatus
	Charges []ChargeLine
}

// PartsCost возвращает суммарную стоимость запчастей заявки.
func (r *TicketReport) PartsCost() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Charges {
		total = total.Add(line.Charge)
	}
	return total
}

// TotalCost возвращает полную стоимость заявки: запчасти плюс работа.
func (r *TicketReport) TotalCost() decimal.Decimal {
	return r.PartsCost().Add(r.Ticket.WorkCharge)
}

// DummyDevice используется для приёма данных устройства из JSON-запроса.
type DummyDevice struct {
	ClientID     int    `json:"client_id" validate:"required"`
	TypeID       int    `json:"type_id" validate:"required"`
	ModelID      *int   `json:"model_id"`
	SerialNumber string `json:"serial_number" validate:"omitempty,max=20"`
	Description  string `json:"description" validate:"omitempty,max=20"`
	Comment      string `json:"comment" validate:"omitempty,max=200"`
}

// DummyTicket используется для приёма данных заявки из JSON-запроса.
type DummyTicket struct {
	ClientID   int    `json:"client_id" validate:"required"`
	DeviceID   int    `json:"device_id" validate:"required"`
	StatusID   int    `json:"status_id" validate:"required"`
	Problem    string `json:"problem" validate:"required,max=400"`
	Diagnosis  string `json:"diagnosis" validate:"omitempty,max=600"`
	Actions    string `json:"actions" validate:"omitempty,max=600"`
	WorkCharge string `json:"work_charge" validate:"omitempty"`
}

// DummyCharge используется для приёма данных о запчасти заявки.
type DummyCharge struct {
	PartID       int    `json:"part_id" validate:"required"`
	Charge       string `json:"charge" validate:"required"`
	SerialNumber string `json:"serial_number" validate:"omitempty,max=30"`
}

// DummyDeviceType используется для приёма типа устройства из JSON-запроса.
type DummyDeviceType struct {
	Type string `json:"type" validate:"required,max=20"`
}

// DummyDeviceModel используется для приёма модели устройства из JSON-запроса.
type DummyDeviceModel struct {
	Name string `json:"name" validate:"required,max=50"`
}

// DummyPart используется для приёма данных запчасти из JSON-запроса.
type DummyPart struct {
	Name string `json:"name" validate:"required,max=30"`
}

// DummyTicketStatus используется для приёма статуса заявки из JSON-запроса.
type DummyTicketStatus struct {
	Status string `json:"status" validate:"required,max=20"`
	Label  string `json:"label" validate:"omitempty,max=30"`
}
