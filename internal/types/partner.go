package types

// Partner represents a traffic or billing partner of an account
type Partner struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
}
