package category

// Prompt templates for the generative path. Placeholders {entity}, {context}
// and {objective} are substituted at request time. Every prompt mandates a
// category-specific JSON schema and forbids prose outside the JSON.

const descriptionPrompt = `You are a business intelligence analyst profiling {entity}.

Source excerpts:
{context}

Write a factual five-sentence description of what {entity} does: its industry,
core products or services, customers, and scale. Use only facts present in the
excerpts.

Return only a JSON object, no prose before or after:
{"description": "<five sentences>"}`

const strengthPrompt = `You are a business intelligence analyst assessing {entity}.

Source excerpts:
{context}

List the company's most significant strengths and competitive advantages
supported by the excerpts. One complete sentence per strength.

Return only a JSON object, no prose before or after:
{"strengths": [{"text": "<strength sentence>", "confidence": "high|medium|low"}]}`

const weaknessPrompt = `You are a business intelligence analyst assessing {entity}.

Source excerpts:
{context}

List the company's weaknesses, problems or vulnerabilities supported by the
excerpts. One complete sentence per weakness. Do not list opportunities or
positive outcomes.

Return only a JSON object, no prose before or after:
{"weaknesses": [{"text": "<weakness sentence>", "confidence": "high|medium|low"}]}`

const opportunityPrompt = `You are a business intelligence analyst assessing {entity}.

Source excerpts:
{context}

List growth opportunities available to the company based on the excerpts. One
complete sentence per opportunity.

Return only a JSON object, no prose before or after:
{"opportunities": [{"text": "<opportunity sentence>", "confidence": "high|medium|low"}]}`

const latestUpdatesPrompt = `You are a business intelligence analyst tracking {entity}.

Source excerpts:
{context}

List the most recent notable developments: announcements, launches, deals,
results, leadership changes. One complete sentence per update, most recent
first.

Return only a JSON object, no prose before or after:
{"updates": [{"text": "<update sentence>", "confidence": "high|medium|low"}]}`

const challengesPrompt = `You are a business intelligence analyst assessing {entity}.

Source excerpts:
{context}

List the external and internal challenges the company faces according to the
excerpts. One complete sentence per challenge.

Return only a JSON object, no prose before or after:
{"challenges": [{"text": "<challenge sentence>", "confidence": "high|medium|low"}]}`

const decisionMakersPrompt = `You are a business intelligence analyst researching {entity}.

Source excerpts:
{context}

List the named executives and decision makers mentioned in the excerpts with
their roles. One sentence per person in the form "<Name>, <role>".

Return only a JSON object, no prose before or after:
{"decision_makers": [{"text": "<name and role>", "confidence": "high|medium|low"}]}`

const marketPositionPrompt = `You are a business intelligence analyst assessing {entity}.

Source excerpts:
{context}

Describe the company's market position: ranking, share, main competitors and
differentiation, as supported by the excerpts. One complete sentence per
observation.

Return only a JSON object, no prose before or after:
{"market_position": [{"text": "<observation sentence>", "confidence": "high|medium|low"}]}`

const futurePlansPrompt = `You are a business intelligence analyst tracking {entity}.

Source excerpts:
{context}

List the company's stated future plans, targets and strategic initiatives. One
complete sentence per plan.

Return only a JSON object, no prose before or after:
{"future_plans": [{"text": "<plan sentence>", "confidence": "high|medium|low"}]}`

const actionPlanPrompt = `You are a sales strategist preparing an engagement with {entity}.

Objective: {objective}

Source excerpts:
{context}

Propose concrete next actions to advance the objective, grounded in the
company facts above. One complete sentence per action, ordered by priority.

Return only a JSON object, no prose before or after:
{"action_plan": [{"text": "<action sentence>", "confidence": "high|medium|low"}]}`

const solutionPrompt = `You are a sales strategist preparing an engagement with {entity}.

Objective: {objective}

Source excerpts:
{context}

Identify the company's pain points from the excerpts and propose a solution
for each that serves the objective. One complete sentence per solution.

Return only a JSON object, no prose before or after:
{"solutions": [{"text": "<solution sentence>", "confidence": "high|medium|low"}]}`
