// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Name       string `json:"name"`
	Link       string `json:"link"`
	CoverImage string `json:"coverImage,omitempty"`
	Active     *bool  `json:"active,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

// CreateEventResponse returns the id of a newly created event.
type CreateEventResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// UpdateEventRequest represents a partial update. Absent fields are left
// untouched; an empty startDate or endDate clears the bound.
type UpdateEventRequest struct {
	ID         string  `json:"id"`
	Name       *string `json:"name,omitempty"`
	Link       *string `json:"link,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
	Order      *int    `json:"order,omitempty"`
	Active     *bool   `json:"active,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
}

// ReorderRequest moves the event at FromIndex to ToIndex within the
// rank-sorted sequence. Pointers distinguish a missing index from zero.
type ReorderRequest struct {
	FromIndex *int `json:"fromIndex"`
	ToIndex   *int `json:"toIndex"`
}

// MessageResponse is a simple success acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
