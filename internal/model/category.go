package model

// Category identifies one axis of business intelligence extracted about an
// entity. The set is closed; both extraction strategies and the aggregator
// key their work off it.
type Category string

const (
	CategoryDescription    Category = "description"
	CategoryStrength       Category = "strength"
	CategoryWeakness       Category = "weakness"
	CategoryOpportunity    Category = "opportunity"
	CategoryLatestUpdates  Category = "latest_updates"
	CategoryChallenges     Category = "challenges"
	CategoryDecisionMakers Category = "decision_makers"
	CategoryMarketPosition Category = "market_position"
	CategoryFuturePlans    Category = "future_plans"
	CategoryActionPlan     Category = "action_plan"
	CategorySolution       Category = "solution"
)

// Categories returns all categories in canonical display order.
func Categories() []Category {
	return []Category{
		CategoryDescription,
		CategoryStrength,
		CategoryWeakness,
		CategoryOpportunity,
		CategoryLatestUpdates,
		CategoryChallenges,
		CategoryDecisionMakers,
		CategoryMarketPosition,
		CategoryFuturePlans,
		CategoryActionPlan,
		CategorySolution,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns a human-readable heading for the category.
func (c Category) Title() string {
	switch c {
	case CategoryDescription:
		return "Company Description"
	case CategoryStrength:
		return "Strengths"
	case CategoryWeakness:
		return "Weaknesses"
	case CategoryOpportunity:
		return "Opportunities"
	case CategoryLatestUpdates:
		return "Latest Updates"
	case CategoryChallenges:
		return "Challenges"
	case CategoryDecisionMakers:
		return "Decision Makers"
	case CategoryMarketPosition:
		return "Market Position"
	case CategoryFuturePlans:
		return "Future Plans"
	case CategoryActionPlan:
		return "Action Plan"
	case CategorySolution:
		return "Solutions"
	default:
		return string(c)
	}
}
