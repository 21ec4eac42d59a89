package scopes

import "testing"

func TestRequires(t *testing.T) {
	tests := []struct {
		name     string
		token    []string
		required []string
		expected bool
	}{
		{"One matching scope", []string{User}, []string{User}, true},
		{"Second of required matches", []string{Admin}, []string{AdminMaster, Admin}, true},
		{"OR semantics, one of many is enough", []string{Moderator, User}, []string{AdminMaster, Moderator}, true},
		{"No overlap", []string{User}, []string{AdminMaster, Admin}, false},
		{"Empty token scopes", nil, []string{User}, false},
		{"Empty requirement passes any caller", []string{User}, nil, true},
		{"Empty requirement, no scopes", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Requires(tt.token, tt.required)
			if got != tt.expected {
				t.Errorf("Requires(%v, %v) = %v, want %v", tt.token, tt.required, got, tt.expected)
			}
		})
	}
}

func TestUserTypeFromScopes(t *testing.T) {
	tests := []struct {
		name     string
		scopes   []string
		expected UserType
	}{
		{"Admin", []string{Admin, User}, TypeAdmin},
		{"Admin master", []string{AdminMaster, User}, TypeAdmin},
		{"Admin outranks moderator", []string{Admin, Moderator}, TypeAdmin},
		{"Master moderator only", []string{MasterModerator, User}, TypeMasterModerator},
		{"Master moderator outranks moderator", []string{MasterModerator, Moderator, User}, TypeMasterModerator},
		{"Moderator", []string{Moderator, User}, TypeModerator},
		{"Plain user", []string{User}, TypeUser},
		{"No scopes", nil, TypeUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserTypeFromScopes(tt.scopes)
			if got != tt.expected {
				t.Errorf("UserTypeFromScopes(%v) = %v, want %v", tt.scopes, got, tt.expected)
			}
		})
	}
}
