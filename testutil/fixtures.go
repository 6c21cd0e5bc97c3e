package testutil

import "github.com/pkordes/livemap/internal/domain"

// AcmeJSON is a single-business directory payload.
const AcmeJSON = `[{
	"_id": "1",
	"details": {"name": "Acme", "address": {"streetName": "MG Road", "city": "Mumbai"}},
	"businessLocation": {"location": {"latitude": "19.07", "longitude": "72.87"}},
	"category": {"description": "Hardware and tools", "tags": ["retail", "local"]},
	"contactDetails": {"contactName": "Wile", "contactNumber": "555-1234"}
}]`

// Business returns a minimal business at lat/lng.
func Business(id, name, lat, lng string) domain.Business {
	return domain.Business{
		ID:      id,
		Details: domain.BusinessDetails{Name: name, Address: domain.Address{StreetName: "Main Street", City: "Pune"}},
		BusinessLocation: domain.BusinessLocation{
			Location: domain.Location{Latitude: lat, Longitude: lng},
		},
		Category:       domain.Category{Description: name + " description", Tags: []string{}},
		ContactDetails: domain.ContactDetails{ContactName: "Owner", ContactNumber: "555-0000"},
	}
}
