package model

// UserProfile holds the household details the planner feeds into grocery
// queries. The profile is a singleton per user and is replaced wholesale on
// edit; there is no partial-field merge.
type UserProfile struct {
	FamilySize       string `json:"familySize"`
	Diet             string `json:"diet"`
	Budget           string `json:"budget,omitempty"`
	NutritionalFocus string `json:"nutritionalFocus,omitempty"`
}

// DefaultProfile is the profile used before onboarding and after sign-out.
func DefaultProfile() UserProfile {
	return UserProfile{FamilySize: "2", Diet: "Vegetarian"}
}
