package models

// Requests for scanner HTTP endpoints. Defined in domain for consistency and reuse.

type ScanRequest struct {
	From             string   `query:"from" json:"from" validate:"required,datetime=2006-01-02"`
	To               string   `query:"to" json:"to" validate:"required,datetime=2006-01-02"`
	GrowthThreshold  float64  `query:"growth_threshold" json:"growth_threshold" default:"30" validate:"gt=0,lte=1000"`
	ImpulseWindow    int      `query:"impulse_window" json:"impulse_window" default:"10" validate:"gte=2,lte=120"`
	ImpulseThreshold float64  `query:"impulse_threshold" json:"impulse_threshold" default:"0.05" validate:"gt=0,lt=1"`
	Distinct         bool     `query:"distinct" json:"distinct"`
	Symbols          []string `json:"symbols" validate:"max=500,dive,min=1,max=30"`
}
