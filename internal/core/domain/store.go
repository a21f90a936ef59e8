package domain

// AgentIdentity - fields used to match a listing agent to a store
type AgentIdentity struct {
	Name    string
	Company string
	Email   string
	Phone   string
}

func (i AgentIdentity) IsEmpty() bool {
	return i.Name == "" && i.Company == "" && i.Email == "" && i.Phone == ""
}

type Store struct {
	ID   string
	Name string
	Slug string
}
