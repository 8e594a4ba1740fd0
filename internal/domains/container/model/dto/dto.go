package dto

import (
	"rolloff/internal/domains/container/model"
	"rolloff/shared"
	gDto "rolloff/shared/dto"
	gModel "rolloff/shared/model"
	"rolloff/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateContainerTypeRequest struct {
	Label             string `json:"label"              validate:"required,max=100"`
	SizeLabel         string `json:"size_label"         validate:"required,max=50"`
	BasePrice         string `json:"base_price"         validate:"required,decimal"`
	AvailableQuantity int    `json:"available_quantity" validate:"gte=0"`
	Visible           *bool  `json:"visible"            validate:"omitempty"`
}

func (c *CreateContainerTypeRequest) ToModel(user string) model.ContainerType {
	visible := true
	if c.Visible != nil {
		visible = *c.Visible
	}

	return model.ContainerType{
		ID:                uuid.NewString(),
		Label:             c.Label,
		SizeLabel:         c.SizeLabel,
		BasePrice:         decimal.RequireFromString(c.BasePrice),
		AvailableQuantity: c.AvailableQuantity,
		Visible:           visible,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateContainerTypeRequest struct {
	Label             string           `db:"label"              json:"label"              validate:"omitempty,max=100"`
	SizeLabel         string           `db:"size_label"         json:"size_label"         validate:"omitempty,max=50"`
	BasePrice         *decimal.Decimal `db:"base_price"         json:"base_price"         validate:"omitempty"`
	AvailableQuantity *int             `db:"available_quantity" json:"available_quantity" validate:"omitempty,gte=0"`
	Visible           *bool            `db:"visible"            json:"visible"            validate:"omitempty"`
}

func (u UpdateContainerTypeRequest) IsEmpty() bool {
	return u.Label == "" && u.SizeLabel == "" && u.BasePrice == nil && u.AvailableQuantity == nil && u.Visible == nil
}

type ContainerTypeResponse struct {
	ID                string          `json:"id"`
	Label             string          `json:"label"`
	SizeLabel         string          `json:"size_label"`
	BasePrice         decimal.Decimal `json:"base_price"`
	AvailableQuantity int             `json:"available_quantity"`
	Visible           bool            `json:"visible"`
	gDto.Metadata
}

func (r *ContainerTypeResponse) FromModel(model model.ContainerType) {
	r.ID = model.ID
	r.Label = model.Label
	r.SizeLabel = model.SizeLabel
	r.BasePrice = model.BasePrice
	r.AvailableQuantity = model.AvailableQuantity
	r.Visible = model.Visible
	r.Metadata.FromModel(model.Metadata)
}

type GetContainerTypesResponse struct {
	ContainerTypes []ContainerTypeResponse `json:"container_types"`
	TotalPage      int                     `json:"total_page"`
	TotalData      int                     `json:"total_data"`
}

func (r *GetContainerTypesResponse) FromModels(models []model.ContainerType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.ContainerTypes = make([]ContainerTypeResponse, len(models))
	for i, mod := range models {
		r.ContainerTypes[i].FromModel(mod)
	}
}
