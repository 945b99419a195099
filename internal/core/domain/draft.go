package domain

// DraftMode selects which editor rules apply to a Draft.
type DraftMode string

const (
	DraftCreate   DraftMode = "create"
	DraftEdit     DraftMode = "edit"
	DraftRegister DraftMode = "register"
)

// Draft is the immutable input of the user editor: what the person typed,
// before any validation or normalisation.
type Draft struct {
	Mode            DraftMode
	ID              int64 // target user for DraftEdit
	Username        string
	DisplayName     string
	Email           string
	Role            Role
	Password        string
	ConfirmPassword string
}
