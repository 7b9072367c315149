package overlay

import (
	"regexp"
	"strings"
)

// The services directory is a fixed catalog: titles and their default order
// are compiled in, and only the overlay can change what readers see. Slugs
// derived from the titles are the stable entity ids.
var serviceTitles = []string{
	"Administration of Estate",
	"Air Freight (Repatriation)",
	"Air Freight (Within Kenya)",
	"Anatomical Donation",
	"Associations - Professional",
	"Autopsy Services",
	"Body Reconstruction",
	"Burial Permit",
	"Catering",
	"Church/Chapel Service",
	"Coffin Perfume",
	"Coffin/Casket Dealers",
	"Condolences Books",
	"Cremation Service",
	"Crosses",
	"Death Certificate",
	"Death Notification",
	"Death Records Retrieval",
	"DNA Retrieval/Preservation",
	"Embalming Services",
	"Eulogy Writing Services",
	"Exhumation Services",
	"First Aid Services",
	"Flowers/Wreaths",
	"Funeral Directors",
	"Funeral Home/Mortuary",
	"Funeral Insurance Cover",
	"Funeral Keepsakes",
	"Funeral Programme Design",
	"Funeral Programme Printing",
	"Funeral Wear",
	"Grave Diggers/Construction",
	"Grave Maintenance",
	"Grave Reservation",
	"Grief/Bereavement Counselling",
	"Headstone/Tombstone",
	"Hearse",
	"Hospice Care",
	"Implants Recovery",
	"Mausoleum Design/Construction",
	"Meeting Venues",
	"Memorial Boards",
	"Memorial Jewelry",
	"Mobile Toilets",
	"Mortuary Cosmetologist",
	"Mortuary Science Colleges",
	"Obituaries - Newspapers",
	"Obituaries - Radio",
	"Palliative Care",
	"Personalized Memorial Items",
	"Pet Funerals",
	"Photography",
	"Public Address System",
	"Sympathy Cards",
	"Tents/Seats",
	"Transportation/Car Hire Services",
	"Trust Registration",
	"Urns",
	"Video & Streaming Services",
	"Wills/Estate Planning",
}

// ServiceDefinition is one compiled-in catalog row.
type ServiceDefinition struct {
	ID        string
	Title     string
	SortOrder int
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// ServiceSlug derives the stable id for a service title.
func ServiceSlug(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

var serviceDefinitions = func() []ServiceDefinition {
	defs := make([]ServiceDefinition, len(serviceTitles))
	for i, title := range serviceTitles {
		defs[i] = ServiceDefinition{ID: ServiceSlug(title), Title: title, SortOrder: i}
	}
	return defs
}()

// ServiceDefinitions returns the static catalog in definition order.
func ServiceDefinitions() []ServiceDefinition {
	return serviceDefinitions
}

// ServiceDefinitionByID looks up a catalog row by slug.
func ServiceDefinitionByID(id string) (ServiceDefinition, bool) {
	for _, def := range serviceDefinitions {
		if def.ID == id {
			return def, true
		}
	}
	return ServiceDefinition{}, false
}
