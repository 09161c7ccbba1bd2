// Package category holds the static per-category configuration both
// extraction strategies read: exemplar sentences and keyword lists for the
// lexical path, retrieval queries and prompt templates for the generative
// path. The tables are fixed at compile time and never mutated at runtime.
package category

import (
	"github.com/sells-group/intel-engine/internal/model"
)

// Default lexical acceptance thresholds.
const (
	defaultThreshold     = 0.52
	descriptionThreshold = 0.50
	strengthThreshold    = 0.50
)

// Definition is the full static configuration for one category.
type Definition struct {
	Category model.Category

	// Lexical path.
	Exemplars []string
	Keywords  []string
	Threshold float64
	MaxItems  int

	// Generative path. Query and Prompt use {entity}, {context} and
	// {objective} placeholders.
	Query       string
	Prompt      string
	ResponseKey string
	// SingleText marks categories whose canonical response is one text
	// value rather than an array of items.
	SingleText bool
	// NeedsObjective marks the engagement-oriented categories that take the
	// caller-supplied objective.
	NeedsObjective bool

	// DisplayCap bounds the post-aggregation item count.
	DisplayCap int
}

// Lookup returns the definition for cat.
func Lookup(cat model.Category) (Definition, bool) {
	def, ok := catalog[cat]
	return def, ok
}

// All returns the definitions in canonical category order.
func All() []Definition {
	cats := model.Categories()
	defs := make([]Definition, 0, len(cats))
	for _, c := range cats {
		defs = append(defs, catalog[c])
	}
	return defs
}

var catalog = map[model.Category]Definition{
	model.CategoryDescription: {
		Category: model.CategoryDescription,
		Exemplars: []string{
			"The company is a leading telecommunications provider offering mobile and broadband services.",
			"Acme is a software company that provides cloud-based solutions to enterprise customers.",
			"The firm is a global manufacturer of industrial equipment and automation systems.",
			"It is a financial services company specializing in retail banking and insurance products.",
			"The organization operates as a healthcare provider delivering diagnostics and patient care.",
		},
		Keywords: []string{
			"company", "provider", "offers", "offering", "provides", "operates",
			"specializes", "headquartered", "founded", "services", "products",
		},
		Threshold:   descriptionThreshold,
		MaxItems:    3,
		Query:       "company overview business description what {entity} does",
		Prompt:      descriptionPrompt,
		ResponseKey: "description",
		SingleText:  true,
		DisplayCap:  1,
	},
	model.CategoryStrength: {
		Category: model.CategoryStrength,
		Exemplars: []string{
			"The company holds a strong market leadership position in its core segment.",
			"Its extensive distribution network is a major competitive advantage.",
			"The firm has a highly experienced management team and strong brand recognition.",
			"Robust revenue growth and healthy margins demonstrate operational excellence.",
			"A loyal customer base and long-term contracts provide stable recurring revenue.",
		},
		Keywords: []string{
			"strong", "leading", "leader", "advantage", "growth", "robust",
			"innovative", "market share", "award", "successful", "profitable",
		},
		Threshold:   strengthThreshold,
		MaxItems:    5,
		Query:       "strengths competitive advantages market leadership {entity}",
		Prompt:      strengthPrompt,
		ResponseKey: "strengths",
		DisplayCap:  10,
	},
	model.CategoryWeakness: {
		Category: model.CategoryWeakness,
		Exemplars: []string{
			"The company struggles with declining revenue in its legacy business lines.",
			"High customer churn remains a persistent weakness for the firm.",
			"Its heavy dependence on a single supplier exposes the business to risk.",
			"Aging infrastructure and outdated systems limit operational efficiency.",
			"The company suffers from weak margins compared to its main competitors.",
		},
		Keywords: []string{
			"weakness", "declining", "struggle", "churn", "loss", "risk",
			"dependence", "outdated", "legacy", "shortage", "lawsuit", "debt",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "weaknesses problems declining struggles risks {entity}",
		Prompt:      weaknessPrompt,
		ResponseKey: "weaknesses",
		DisplayCap:  8,
	},
	model.CategoryOpportunity: {
		Category: model.CategoryOpportunity,
		Exemplars: []string{
			"Expansion into emerging markets presents a significant growth opportunity.",
			"The company could capitalize on rising demand for digital services.",
			"New regulatory changes open the door to adjacent product categories.",
			"Strategic partnerships could unlock untapped customer segments.",
			"Growing industry adoption of automation creates room for upselling.",
		},
		Keywords: []string{
			"opportunity", "expansion", "growth", "potential", "emerging",
			"untapped", "demand", "partnership", "new market", "launch",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "growth opportunities expansion new markets potential {entity}",
		Prompt:      opportunityPrompt,
		ResponseKey: "opportunities",
		DisplayCap:  8,
	},
	model.CategoryLatestUpdates: {
		Category: model.CategoryLatestUpdates,
		Exemplars: []string{
			"The company announced a new product launch earlier this quarter.",
			"It recently completed the acquisition of a regional competitor.",
			"The firm reported quarterly results above analyst expectations.",
			"A new chief executive was appointed to lead the company this year.",
			"The company signed a multi-year agreement with a major enterprise client.",
		},
		Keywords: []string{
			"announced", "launched", "recently", "acquisition", "appointed",
			"reported", "signed", "quarter", "this year", "new",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "latest news updates announcements {entity}",
		Prompt:      latestUpdatesPrompt,
		ResponseKey: "updates",
		DisplayCap:  8,
	},
	model.CategoryChallenges: {
		Category: model.CategoryChallenges,
		Exemplars: []string{
			"The company faces intense competition from low-cost entrants.",
			"Supply chain disruptions continue to pressure delivery timelines.",
			"Regulatory scrutiny poses an ongoing challenge for the business.",
			"Rising input costs are squeezing profitability across the sector.",
			"Talent shortages make it difficult to scale engineering teams.",
		},
		Keywords: []string{
			"challenge", "competition", "pressure", "disruption", "regulatory",
			"shortage", "rising costs", "difficult", "headwind", "uncertainty",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "challenges obstacles competition headwinds facing {entity}",
		Prompt:      challengesPrompt,
		ResponseKey: "challenges",
		DisplayCap:  8,
	},
	model.CategoryDecisionMakers: {
		Category: model.CategoryDecisionMakers,
		Exemplars: []string{
			"The chief executive officer has led the company since 2015.",
			"The chief technology officer oversees the product and platform teams.",
			"The vice president of sales is responsible for enterprise accounts.",
			"The company's founder remains chairman of the board.",
			"The chief financial officer joined from a larger industry rival.",
		},
		Keywords: []string{
			"ceo", "cto", "cfo", "coo", "chief", "president", "vice president",
			"director", "founder", "chairman", "head of", "executive",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "executives leadership team decision makers CEO CTO {entity}",
		Prompt:      decisionMakersPrompt,
		ResponseKey: "decision_makers",
		DisplayCap:  8,
	},
	model.CategoryMarketPosition: {
		Category: model.CategoryMarketPosition,
		Exemplars: []string{
			"The company ranks among the top three providers in its domestic market.",
			"It competes directly with larger multinational players in the segment.",
			"The firm holds an estimated fifteen percent share of the regional market.",
			"Its premium positioning differentiates it from volume-driven rivals.",
			"The company is a niche player serving mid-market customers.",
		},
		Keywords: []string{
			"market share", "ranks", "competitor", "position", "segment",
			"niche", "premium", "top", "largest", "rival",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "market position competitors market share ranking {entity}",
		Prompt:      marketPositionPrompt,
		ResponseKey: "market_position",
		DisplayCap:  8,
	},
	model.CategoryFuturePlans: {
		Category: model.CategoryFuturePlans,
		Exemplars: []string{
			"The company plans to expand its data center footprint next year.",
			"Management intends to double research and development spending.",
			"The firm aims to enter two new international markets by 2027.",
			"A new product line is scheduled to launch in the coming quarters.",
			"The company targets carbon-neutral operations within five years.",
		},
		Keywords: []string{
			"plans", "will", "intends", "aims", "roadmap", "targets",
			"upcoming", "next year", "strategy", "invest", "expand",
		},
		Threshold:   defaultThreshold,
		MaxItems:    5,
		Query:       "future plans roadmap strategy upcoming investments {entity}",
		Prompt:      futurePlansPrompt,
		ResponseKey: "future_plans",
		DisplayCap:  8,
	},
	model.CategoryActionPlan: {
		Category: model.CategoryActionPlan,
		Exemplars: []string{
			"Engage the buying committee with a tailored value proposition.",
			"Schedule a discovery call with the operations leadership team.",
			"Present a proof of concept addressing the company's integration needs.",
			"Position the offering against the incumbent vendor's weaknesses.",
			"Build a business case quantifying cost savings for the finance team.",
		},
		Keywords: []string{
			"engage", "propose", "schedule", "present", "position",
			"business case", "pilot", "proof of concept", "stakeholder",
		},
		Threshold:      defaultThreshold,
		MaxItems:       5,
		Query:          "how to engage sales approach action plan {entity} {objective}",
		Prompt:         actionPlanPrompt,
		ResponseKey:    "action_plan",
		NeedsObjective: true,
		DisplayCap:     8,
	},
	model.CategorySolution: {
		Category: model.CategorySolution,
		Exemplars: []string{
			"A managed migration service would address the company's legacy system burden.",
			"An analytics platform could resolve its reporting and visibility gaps.",
			"Automation tooling would reduce the manual workload in operations.",
			"A unified customer data platform would fix fragmented engagement.",
			"Outsourced monitoring could close the around-the-clock coverage gap.",
		},
		Keywords: []string{
			"solution", "solve", "address", "resolve", "platform", "service",
			"automation", "integration", "reduce", "improve",
		},
		Threshold:      defaultThreshold,
		MaxItems:       5,
		Query:          "problems needs pain points solutions for {entity} {objective}",
		Prompt:         solutionPrompt,
		ResponseKey:    "solutions",
		NeedsObjective: true,
		DisplayCap:     8,
	},
}
