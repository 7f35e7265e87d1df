package request

type Checkout struct {
	Address string `validate:"required" json:"address"`
}
