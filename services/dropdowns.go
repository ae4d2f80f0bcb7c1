package services

// DefaultUOM is preselected for new line items.
const DefaultUOM = "Nos"

// UOMOptions lists the units of measure offered on line items.
var UOMOptions = []string{
	DefaultUOM,
	"Set",
	"Lot",
	"Lumpsum",
	"Kg",
	"MT",
	"Ltr",
	"Mtr",
	"Sqm",
	"Sqft",
	"Box",
	"Pair",
	"Roll",
	"Hour",
	"Day",
	"Month",
}
