package domain

import "strings"

// DefaultProfileImagePath is served by the API for accounts without an upload.
const DefaultProfileImagePath = "/uploads/default.png"

// Skill is a self-reported skill on a profile.
type Skill struct {
	Skill             string `json:"skill"`
	YearsOfExperience int    `json:"yearsOfExperience"`
}

// Profile is the authenticated account's editable profile.
type Profile struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Skills       []Skill `json:"skills,omitempty"`
	ProfileImage string  `json:"profileImage,omitempty"`
}

// ImageOrDefault returns the profile image URL, falling back to the API's
// default asset when none was uploaded.
func (p Profile) ImageOrDefault(apiURL string) string {
	return ImageOrDefault(p.ProfileImage, apiURL)
}

// ImageOrDefault returns image, or the default asset under apiURL when empty.
func ImageOrDefault(image, apiURL string) string {
	if strings.TrimSpace(image) != "" {
		return image
	}
	return strings.TrimRight(apiURL, "/") + DefaultProfileImagePath
}

// ProfileUpdate is the payload for editing name, email and password.
// An empty password leaves the current one unchanged.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
