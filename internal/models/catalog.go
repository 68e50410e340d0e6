package models

// Service categories offered on the marketplace.
var ServiceCategories = []string{
	"plumber",
	"electrician",
	"carpenter",
	"cleaner",
	"painter",
	"appliance_repair",
	"pest_control",
	"gardening",
}

type Location struct {
	Name    string `json:"name"`
	Pincode string `json:"pincode"`
}

// Locations served. Search and profile forms only accept these names.
var Locations = []Location{
	{Name: "Panaji", Pincode: "403001"},
	{Name: "Margao", Pincode: "403601"},
	{Name: "Calangute", Pincode: "403516"},
	{Name: "Mapusa", Pincode: "403507"},
	{Name: "Vasco da Gama", Pincode: "403802"},
	{Name: "Baga", Pincode: "403516"},
}

func IsServiceCategory(s string) bool {
	for _, c := range ServiceCategories {
		if c == s {
			return true
		}
	}
	return false
}

func IsLocation(name string) bool {
	_, ok := LocationByName(name)
	return ok
}

func LocationByName(name string) (Location, bool) {
	for _, l := range Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}
