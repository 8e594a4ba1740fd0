package model

import (
	"rolloff/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "container_types"
	EntityName = "container_type"

	FieldID                = "id"
	FieldLabel             = "label"
	FieldSizeLabel         = "size_label"
	FieldBasePrice         = "base_price"
	FieldAvailableQuantity = "available_quantity"
	FieldVisible           = "visible"
)

// ContainerType is a bookable dumpster size. BasePrice is copied onto every reservation at booking time.
type ContainerType struct {
	ID                string          `db:"id"`
	Label             string          `db:"label"`
	SizeLabel         string          `db:"size_label"`
	BasePrice         decimal.Decimal `db:"base_price"`
	AvailableQuantity int             `db:"available_quantity"`
	Visible           bool            `db:"visible"`
	model.Metadata
}
