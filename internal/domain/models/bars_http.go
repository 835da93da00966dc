package models

// Requests for the bars HTTP endpoints. Defined in domain for consistency and reuse.

type BarsRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	TF      string `query:"tf" json:"tf" default:"weekly" validate:"oneof=daily weekly monthly quarterly"`
	Date    string `query:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	Period  int    `query:"period" json:"period" default:"160" validate:"gte=1,lte=5000"`
}

type SymbolBarsRequest struct {
	TF     string `query:"tf" json:"tf" default:"weekly" validate:"oneof=daily weekly monthly quarterly"`
	Date   string `query:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	Period int    `query:"period" json:"period" default:"160" validate:"gte=1,lte=5000"`
}
