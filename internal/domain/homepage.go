package domain

import "time"

// Homepage section keys an admin can toggle and reorder.
const (
	BlockHero        = "hero"
	BlockNewArrivals = "new_arrivals"
	BlockBestsellers = "bestsellers"
	BlockBrands      = "brands"
	BlockArticles    = "articles"
	BlockPromo       = "promo"
)

// HomeBlockKeys lists the known sections in their default order.
var HomeBlockKeys = []string{
	BlockHero,
	BlockNewArrivals,
	BlockBestsellers,
	BlockBrands,
	BlockArticles,
	BlockPromo,
}

type HomeBlock struct {
	Key       string    `json:"key" dynamodbav:"block_key" gorm:"column:block_key;primaryKey;size:32"`
	Title     string    `json:"title" dynamodbav:"title" gorm:"column:title;size:128"`
	Enabled   bool      `json:"enabled" dynamodbav:"enabled" gorm:"column:enabled;not null"`
	Position  int       `json:"position" dynamodbav:"position" gorm:"column:position;not null"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at" gorm:"column:updated_at"`
}

func (HomeBlock) TableName() string { return "home_blocks" }

type HomeBlockInput struct {
	Key     string `json:"key" validate:"required,oneof=hero new_arrivals bestsellers brands articles promo"`
	Title   string `json:"title" validate:"max=128"`
	Enabled bool   `json:"enabled"`
}

type UpdateHomeBlocksRequest struct {
	Blocks []HomeBlockInput `json:"blocks" validate:"required,min=1,dive"`
}
