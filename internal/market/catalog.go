package market

import "slices"

// Action is the direction of a listing.
type Action string

const (
	ActionSell Action = "sell"
	ActionBuy  Action = "buy"
)

// Label is the user-facing name of the action.
func (a Action) Label() string {
	if a == ActionBuy {
		return "Buy"
	}
	return "Sell"
}

// ParseAction accepts "sell" and "buy".
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionSell, ActionBuy:
		return Action(s), true
	}
	return "", false
}

// ListingType is the kind of goods on offer.
type ListingType string

const (
	TypeEvent    ListingType = "event"
	TypePass     ListingType = "pass"
	TypeStandard ListingType = "standard"
)

// Types lists the listing types in menu order.
var Types = []ListingType{TypeEvent, TypePass, TypeStandard}

// Label is the user-facing name of the type.
func (t ListingType) Label() string {
	switch t {
	case TypeEvent:
		return "Event"
	case TypePass:
		return "BattlePass"
	case TypeStandard:
		return "Standard"
	}
	return string(t)
}

// ParseType accepts one of Types.
func ParseType(s string) (ListingType, bool) {
	t := ListingType(s)
	return t, slices.Contains(Types, t)
}

// Servers lists the game servers in menu order.
var Servers = []string{"TEXAS", "FLORIDA", "NEVADA", "HAWAII", "INDIANA"}

// Categories lists the goods categories in menu order.
var Categories = []string{
	"Car",
	"Accessory",
	"Real estate",
	"Business",
	"SIM card",
	"Items",
	"License plates",
	"Costumes",
}

// IsServer reports whether s is a known server.
func IsServer(s string) bool { return slices.Contains(Servers, s) }

// IsCategory reports whether s is a known category.
func IsCategory(s string) bool { return slices.Contains(Categories, s) }

const (
	qNick    = "Nickname"
	qContact = "Contact (TG/VK)"
	qPrice   = "Price"
	qBudget  = "Budget"
)

var sellTemplates = map[string][]string{
	"Car":            {qNick, "Car model", qPrice, qContact},
	"Real estate":    {qNick, "House number/address", qPrice, qContact},
	"Accessory":      {qNick, "Accessory name", qPrice, qContact},
	"SIM card":       {qNick, "SIM card number (example)", qPrice, qContact},
	"Business":       {qNick, "Business name", "Income per day", qPrice, qContact},
	"Items":          {qNick, "Item name", qPrice, qContact},
	"License plates": {qNick, "License plate (example)", qPrice, qContact},
	"Costumes":       {qNick, "Costume name", qPrice, qContact},
}

var buyTemplates = map[string][]string{
	"Car":            {qNick, "Car model", qBudget, qContact},
	"Real estate":    {qNick, "House type (class, city)", qBudget, qContact},
	"Accessory":      {qNick, "Accessory name", qBudget, qContact},
	"SIM card":       {qNick, "SIM card example", qBudget, qContact},
	"Business":       {qNick, "Wanted business", "Wanted income per day", qBudget, qContact},
	"Items":          {qNick, "Item name", qBudget, qContact},
	"License plates": {qNick, "License plate example", qBudget, qContact},
	"Costumes":       {qNick, "Costume name", qBudget, qContact},
}

var (
	genericSell = []string{qNick, "Title", qPrice, qContact}
	genericBuy  = []string{qNick, "Description", "Budget/Price", qContact}
)

// Template returns the ordered questions asked for a (category, action)
// pair. Unknown categories get a generic four-question form. The result is
// a fresh slice.
func Template(category string, action Action) []string {
	table, fallback := sellTemplates, genericSell
	if action == ActionBuy {
		table, fallback = buyTemplates, genericBuy
	}
	if t, ok := table[category]; ok {
		return slices.Clone(t)
	}
	return slices.Clone(fallback)
}
