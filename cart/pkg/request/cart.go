package request

type UpdateQuantity struct {
	Quantity int32 `validate:"required,gte=1" json:"quantity"`
}

type AddToCart struct {
	ProductID string `validate:"required"       json:"productId"`
	Quantity  int32  `validate:"required,gte=1" json:"quantity"`
}
