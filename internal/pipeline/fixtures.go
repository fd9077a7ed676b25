package pipeline

import (
	"net/url"
	"strings"
)

// fixture is one allow-listed sample listing for restricted (dev) mode.
// Analysis runs fully offline against these texts.
type fixture struct {
	Title       string
	Price       string
	ProductText string
	PolicyText  string
}

// Allow-list for dev mode, keyed by host/path of the recognized input.
var fixtures = map[string]fixture{
	"demo.credo.dev/clear": {
		Title: "Aurora Desk Lamp",
		Price: "$49.99",
		ProductText: "Aurora Desk Lamp with adjustable arm. In stock. " +
			"Returns accepted within 30 days. 1 year warranty included. Price $49.99.",
		PolicyText: "Return policy: returns accepted within 30 days of delivery. " +
			"Warranty lasts 12 months from purchase. Price match on identical items.",
	},
	"demo.credo.dev/conflict": {
		Title: "Nimbus Wireless Earbuds",
		Price: "$89.00",
		ProductText: "Nimbus Wireless Earbuds. Price match guarantee. In stock. " +
			"Free returns in 30 days.",
		PolicyText: "Prices subject to change without notice. " +
			"Availability not guaranteed.",
	},
	"demo.credo.dev/unclear": {
		Title:       "Mystery Grab Bag",
		ProductText: "Mystery Grab Bag. Warranty included.",
		PolicyText:  "",
	},
}

// fixtureFor resolves an allow-listed input to its fixture.
func fixtureFor(rawURL string) (fixture, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fixture{}, false
	}
	key := parsed.Host + "/" + strings.Trim(parsed.Path, "/")
	fx, ok := fixtures[key]
	return fx, ok
}
