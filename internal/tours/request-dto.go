package tours

type CreateTourRequest struct {
	Title         string  `json:"title" validate:"required,min=3,max=200"`
	Description   string  `json:"description" validate:"max=10000"`
	Location      string  `json:"location" validate:"required,max=200"`
	DurationHours float64 `json:"duration_hours" validate:"required,gt=0,lte=720"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	MaxGroupSize  int     `json:"max_group_size" validate:"required,min=1,max=1000"`
}

type UpdateTourRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=10000"`
	Location      *string  `json:"location" validate:"omitempty,max=200"`
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gt=0,lte=720"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	MaxGroupSize  *int     `json:"max_group_size" validate:"omitempty,min=1,max=1000"`
	IsActive      *bool    `json:"is_active"`
}

type SetFeaturedRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}

// TourListQuery filters the public catalogue
type TourListQuery struct {
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
	Search   string   `form:"search"`
	Location string   `form:"location"`
	Featured *bool    `form:"featured"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
}
