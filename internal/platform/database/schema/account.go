// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AccountTable represents the 'yamdb.account' table
type AccountTable struct {
	Table            string
	Name             string
	ID               string
	Username         string
	Email            string
	Role             string
	IsSuperuser      string
	FirstName        string
	LastName         string
	Bio              string
	ConfirmationCode string
	CreatedAt        string
	UpdatedAt        string
}

// Account is the schema definition for yamdb.account
var Account = AccountTable{
	Table:            Name + ".account",
	Name:             "account",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	Role:             "role",
	IsSuperuser:      "is_superuser",
	FirstName:        "first_name",
	LastName:         "last_name",
	Bio:              "bio",
	ConfirmationCode: "confirmation_code",
	CreatedAt:        "created_at",
	UpdatedAt:        "updated_at",
}

// ImportColumns returns the columns filled by the CSV importer.
func (t AccountTable) ImportColumns() []string {
	return []string{t.ID, t.Username, t.Email, t.Role, t.Bio, t.FirstName, t.LastName}
}
