package request

type UpdateStatus struct {
	Status       string `validate:"required" json:"status"`
	ArrivingInfo string `                    json:"arrivingInfo"`
	ArrivingDate string `                    json:"arrivingDate"`
}

type MarkArriving struct {
	ArrivingInfo string `validate:"required" json:"arrivingInfo"`
	ArrivingDate string `validate:"required" json:"arrivingDate"`
}
