package models

// Account represents a registered user. The CPF is the primary key and is
// immutable after registration; the password is only ever compared, never
// sent back to clients.
type Account struct {
	CPF      string `json:"cpf"`
	Password string `json:"senha"`
	Name     string `json:"nome"`
	Sector   string `json:"setor"`
	Role     string `json:"cargo"`
}
