package models

// Group is a named bucket a contact may belong to. A contact references at
// most one group; deleting a group detaches its members instead of deleting
// them.
type Group struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
