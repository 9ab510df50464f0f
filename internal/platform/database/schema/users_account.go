// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the marketplace tables and columns used by the
// hand-written SQL in the repositories.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
	Status       string
	AvatarURL    string
	Bio          string
	IsVerified   string
	IsActive     string
	CreatedAt    string
	UpdatedAt    string
	LastLogin    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	Username:     "username",
	PasswordHash: "passwordhash",
	FirstName:    "firstname",
	LastName:     "lastname",
	Phone:        "phone",
	Role:         "role",
	Status:       "status",
	AvatarURL:    "avatarurl",
	Bio:          "bio",
	IsVerified:   "isverified",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	LastLogin:    "lastlogin",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.PasswordHash, t.FirstName, t.LastName,
		t.Phone, t.Role, t.Status, t.AvatarURL, t.Bio, t.IsVerified,
		t.IsActive, t.CreatedAt, t.UpdatedAt, t.LastLogin,
	}
}

// Select returns the column list joined for a SELECT clause.
func (t UserAccountTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
