package request

type Wishlist struct {
	Items []string `validate:"required" json:"items"`
}
