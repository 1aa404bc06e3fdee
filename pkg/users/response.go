package users

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// listResponse mirrors the upstream body. Pointer fields let the validator
// tell a missing field apart from an empty string.
type listResponse struct {
	Results []wireUser `json:"results" validate:"dive"`
}

type wireUser struct {
	Name    *wireName    `json:"name" validate:"required"`
	DOB     *wireDOB     `json:"dob" validate:"required"`
	Picture *wirePicture `json:"picture" validate:"required"`
}

type wireName struct {
	Title *string `json:"title" validate:"required"`
	First *string `json:"first" validate:"required"`
	Last  *string `json:"last" validate:"required"`
}

type wireDOB struct {
	Date *string `json:"date" validate:"required"`
	Age  *int    `json:"age" validate:"required"`
}

type wirePicture struct {
	Large     *string `json:"large" validate:"required"`
	Medium    *string `json:"medium" validate:"required"`
	Thumbnail *string `json:"thumbnail" validate:"required"`
}

var schema = validator.New()

// decodeProfiles parses a response body into profiles, assigning each a new ID.
func decodeProfiles(body []byte) ([]UserProfile, error) {
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	if err := schema.Struct(&resp); err != nil {
		return nil, fmt.Errorf("response does not match schema: %w", err)
	}

	profiles := make([]UserProfile, 0, len(resp.Results))
	for _, u := range resp.Results {
		profiles = append(profiles, u.toProfile())
	}
	return profiles, nil
}

func (u wireUser) toProfile() UserProfile {
	return UserProfile{
		ID: uuid.New(),
		Name: Name{
			Title: *u.Name.Title,
			First: *u.Name.First,
			Last:  *u.Name.Last,
		},
		DOB: DOB{
			Date: *u.DOB.Date,
			Age:  *u.DOB.Age,
		},
		Picture: Picture{
			Large:     *u.Picture.Large,
			Medium:    *u.Picture.Medium,
			Thumbnail: *u.Picture.Thumbnail,
		},
	}
}
