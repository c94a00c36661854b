package render

import "courierdash/internal/model"

// UserGroup is one role's slice of the user list, with the capability flag
// controlling whether mutating controls are rendered for its rows.
type UserGroup struct {
	Title     string
	Role      string
	Users     []model.User
	CanMutate bool
	Empty     string
}

// PartitionUsers splits accounts into the three role groups the user
// management view renders. Every account lands in exactly one group; the
// superadmin group is never given mutating controls, which keeps the
// protected account immune to deactivation and deletion through this UI.
func PartitionUsers(users []model.User) []UserGroup {
	groups := []UserGroup{
		{Title: "Super Administrators", Role: model.RoleSuperadmin, CanMutate: false, Empty: "No super administrators."},
		{Title: "Administrators", Role: model.RoleAdmin, CanMutate: true, Empty: "No administrators yet. Create one using the \"Create Admin\" menu."},
		{Title: "Customers", Role: model.RoleCustomer, CanMutate: true, Empty: "No customers yet."},
	}
	for _, u := range users {
		for i := range groups {
			if groups[i].Role == u.Role {
				groups[i].Users = append(groups[i].Users, u)
				break
			}
		}
	}
	return groups
}
