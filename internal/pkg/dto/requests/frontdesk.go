package requests

type CheckIn struct {
	Notes string `json:"notes" validate:"max=500"`
}
