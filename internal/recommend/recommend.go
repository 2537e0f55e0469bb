// Package recommend maps a completed set of wizard answers to a product
// bundle. Recommend is total: any priority it does not recognise resolves to
// the comfort bundle.
package recommend

import "github.com/konexlab/konex/internal/catalog"

// Priority tokens recorded at the last question step.
const (
	PrioritySecurity = "Security"
	PriorityEnergy   = "Energy"
)

const (
	TitleSecurity = "Security Bundle"
	TitleEnergy   = "Energy Savings Bundle"
	TitleComfort  = "Comfort Bundle"
)

// Kind identifies which branch produced a bundle.
type Kind int

const (
	KindComfort Kind = iota
	KindSecurity
	KindEnergy
)

func (k Kind) String() string {
	switch k {
	case KindSecurity:
		return "security"
	case KindEnergy:
		return "energy"
	default:
		return "comfort"
	}
}

// Phase places a scenario within the trigger -> action -> outcome flow.
type Phase int

const (
	PhaseTrigger Phase = iota
	PhaseAction
	PhaseOutcome
)

func (p Phase) String() string {
	switch p {
	case PhaseTrigger:
		return "trigger"
	case PhaseAction:
		return "action"
	default:
		return "outcome"
	}
}

// Scenario is one stage of the bundle's automation flow.
type Scenario struct {
	Label string
	Icon  string
	Phase Phase
}

// Bundle is the recommendation for one completed configuration.
type Bundle struct {
	Kind      Kind
	Title     string
	Products  []catalog.Product
	Scenarios []Scenario
	// Background is the image of the chosen housing option, "" when none.
	Background string
}

type rule struct {
	kind      Kind
	title     string
	products  []string
	scenarios []Scenario
}

var (
	securityRule = rule{
		kind:     KindSecurity,
		title:    TitleSecurity,
		products: []string{catalog.ProductDoor, catalog.ProductMotion, catalog.ProductSiren},
		scenarios: []Scenario{
			{Label: "Intrusion Detected", Icon: "shield-alert", Phase: PhaseTrigger},
			{Label: "Siren Alert", Icon: "bell-ring", Phase: PhaseAction},
			{Label: "Mobile Notification", Icon: "smartphone", Phase: PhaseOutcome},
		},
	}
	energyRule = rule{
		kind:     KindEnergy,
		title:    TitleEnergy,
		products: []string{catalog.ProductThermo, catalog.ProductTemp, catalog.ProductDoor},
		scenarios: []Scenario{
			{Label: "Window Opened", Icon: "door-open", Phase: PhaseTrigger},
			{Label: "Heating Cut", Icon: "thermometer", Phase: PhaseAction},
			{Label: "Savings", Icon: "piggy-bank", Phase: PhaseOutcome},
		},
	}
	comfortRule = rule{
		kind:     KindComfort,
		title:    TitleComfort,
		products: []string{catalog.ProductSwitch, catalog.ProductPlug, catalog.ProductMotion},
		scenarios: []Scenario{
			{Label: "Return Home", Icon: "home", Phase: PhaseTrigger},
			{Label: "Lights On", Icon: "lightbulb", Phase: PhaseAction},
			{Label: "Cozy Ambiance", Icon: "sofa", Phase: PhaseOutcome},
		},
	}
)

// Recommend derives the bundle for answers, keyed by step number.
func Recommend(cat *catalog.Catalog, answers map[int]string) Bundle {
	r := pick(answers[cat.LastQuestionStep()])

	b := Bundle{
		Kind:       r.kind,
		Title:      r.title,
		Products:   make([]catalog.Product, 0, len(r.products)),
		Scenarios:  append([]Scenario(nil), r.scenarios...),
		Background: cat.ImageFor(catalog.HousingStep, answers[catalog.HousingStep]),
	}
	for _, key := range r.products {
		p, err := cat.Product(key)
		if err != nil {
			// A trimmed custom catalog still yields a bundle.
			p = catalog.Product{Key: key, Title: key}
		}
		b.Products = append(b.Products, p)
	}
	return b
}

func pick(priority string) rule {
	switch priority {
	case PrioritySecurity:
		return securityRule
	case PriorityEnergy:
		return energyRule
	default:
		return comfortRule
	}
}
