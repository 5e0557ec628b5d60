package dto

import "github.com/fekuna/omnipos-pos-service/internal/model"

type LoginRequest struct {
	Token string `json:"token"`
}

type AddItemRequest struct {
	ProductCode string `json:"productCode"`
}

type ScanRequest struct {
	Code string `json:"code"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type ConfirmSelectionRequest struct {
	BatchID  string `json:"batchId"`
	Quantity int    `json:"quantity"`
}

type SetCustomerRequest struct {
	Customer *model.Customer `json:"customer"`
}
