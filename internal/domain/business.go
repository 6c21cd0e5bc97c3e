// Package domain contains the core data types for the live business map.
// It is imported by every other internal package (directory, geocode,
// mapview, render, handler).
package domain

import "strings"

// Address is the postal address a business registered with the directory.
type Address struct {
	BlockNumber string `json:"blockNumber"`
	StreetName  string `json:"streetName"`
	Landmark    string `json:"landmark"`
	City        string `json:"city"`
	District    string `json:"district"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// BusinessDetails holds the display name and registered address.
type BusinessDetails struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// ContactDetails holds how to reach the business. Email is optional.
type ContactDetails struct {
	ContactName    string `json:"contactName"`
	ContactNumber  string `json:"contactNumber"`
	WhatsappNumber string `json:"whatsappNumber"`
	Email          string `json:"email,omitempty"`
}

// Category describes what the business does. Tags keep the order the
// directory returned them in.
type Category struct {
	Description         string   `json:"description"`
	BusinessCategory    string   `json:"businessCategory"`
	BusinessSubCategory string   `json:"businessSubCategory"`
	Tags                []string `json:"tags"`
}

// Location is the raw coordinate pair as the directory sends it: numeric strings.
type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// BusinessLocation wraps the coordinates with an optional place name.
type BusinessLocation struct {
	Location  Location `json:"location"`
	PlaceName string   `json:"placeName"`
}

// Business is one directory entry. The JSON shape matches the directory API
// so a fetched array decodes directly into []Business.
//
// FormattedAddress is never sent by the directory; it is filled in lazily from
// a reverse-geocoding lookup when the business is selected.
type Business struct {
	ID               string           `json:"_id"`
	Details          BusinessDetails  `json:"details"`
	ContactDetails   ContactDetails   `json:"contactDetails"`
	Category         Category         `json:"category"`
	BusinessLocation BusinessLocation `json:"businessLocation"`
	FormattedAddress string           `json:"formattedAddress,omitempty"`
}

// Position parses the business's coordinate strings.
// ok is false when either coordinate is missing, non-numeric or not finite.
func (b Business) Position() (Position, bool) {
	loc := b.BusinessLocation.Location
	return ParsePosition(loc.Latitude, loc.Longitude)
}

// DisplayAddress returns the geocoded address when present, otherwise
// "<streetName>, <city>" built from the registered address.
func (b Business) DisplayAddress() string {
	if b.FormattedAddress != "" {
		return b.FormattedAddress
	}
	a := b.Details.Address
	return strings.TrimSpace(a.StreetName) + ", " + strings.TrimSpace(a.City)
}
