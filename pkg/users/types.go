package users

import "github.com/google/uuid"

// UserProfile is one generated user. The ID is assigned locally when the
// profile is decoded and is not part of the upstream payload.
type UserProfile struct {
	ID      uuid.UUID
	Name    Name
	DOB     DOB
	Picture Picture
}

// Name holds the name parts as returned upstream
type Name struct {
	Title string
	First string
	Last  string
}

// DOB is the date of birth string plus the age in years
type DOB struct {
	Date string
	Age  int
}

// Picture holds the three image URLs
type Picture struct {
	Large     string
	Medium    string
	Thumbnail string
}

// FullName returns "First Last".
func (u UserProfile) FullName() string {
	return u.Name.First + " " + u.Name.Last
}
