package api

import "launchdash/pkg/contracts/domain"

// CallbackResponse carries the recomputed outputs of a callback.
type CallbackResponse struct {
	Changed string                `json:"changed"`
	Outputs []domain.OutputUpdate `json:"outputs"`
}
