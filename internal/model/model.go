package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SelectMemberRequest struct {
	MemberID       string `json:"member_id" binding:"required"`
	SelectionToken string `json:"selection_token" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	ID       string `json:"id"`
}

// WorkHourRequest is the body of create and update.
type WorkHourRequest struct {
	Date        string     `json:"Datum"`
	Description string     `json:"Tätigkeit"`
	Hours       FlexNumber `json:"Stunden"`
}

// FlexNumber accepts a JSON number or a string and keeps the raw text.
type FlexNumber string

func (f *FlexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexNumber(s)
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("hours value %s is neither number nor string", b)
		}
		*f = FlexNumber(b)
	}
	return nil
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Type    string       `json:"type"`
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type MemberSelectionResponse struct {
	Type           string         `json:"type"`
	Success        bool           `json:"success"`
	Multiple       bool           `json:"multiple"`
	Users          []UserResponse `json:"users"`
	SelectionToken string         `json:"selection_token"`
	Message        string         `json:"message"`
}

type Profile struct {
	LastName  string `json:"nachname"`
	FirstName string `json:"vorname"`
	TeableID  string `json:"teableId"`
}

type CurrentUser struct {
	UserResponse
	Profile Profile `json:"profile"`
}

type UserEnvelope struct {
	Success bool        `json:"success"`
	User    CurrentUser `json:"user"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WorkHourDetail is a single stored entry as the edit form loads it.
type WorkHourDetail struct {
	ID          string  `json:"id"`
	Date        string  `json:"Datum"`
	Description string  `json:"Tätigkeit"`
	Hours       float64 `json:"Stunden"`
	FirstName   string  `json:"Vorname"`
	LastName    string  `json:"Nachname"`
}

type WorkHourEnvelope struct {
	Success bool           `json:"success"`
	Data    WorkHourDetail `json:"data"`
}

// SavedWorkHour echoes a created or updated entry.
type SavedWorkHour struct {
	ID            string  `json:"id"`
	User          string  `json:"user"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Hours         float64 `json:"hours"`
	DurationHours float64 `json:"duration_hours"`
}

type SavedWorkHourResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    SavedWorkHour `json:"data"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}
