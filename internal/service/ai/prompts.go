package ai

// Prompt templates are rendered with schema.FString, so literal braces must
// never appear in them. JSON examples are passed in as variables instead.

const resolveSystemPrompt = `Using the conversation history, capture the user's intent and return a search query that is more likely to yield relevant locations.
Reply with the query text only. Do not add quotes, labels or explanations.`

const resolveUserPrompt = `Extract a Google Maps search query from the conversation so far.`

const describeSystemPrompt = `You help a group of people pick a place together.
Describe the places overall briefly, in a friendly tone and in at most a few sentences.
If there are no places, say that nothing matched and suggest how the group could widen the search.`

const describeUserPrompt = `Places found for the conversation:
{places}`

const rankSystemPrompt = `Using the conversation history, map the places to new relevancy scores.
This should be based on the reviews, perceived value, and the user's preferences.
The relevancy scores should be between 0 and 1, where 1 is the most relevant.
Be critical in your assessment.

Reply with a single JSON object and nothing else, shaped like this example:
{format}
"response" is a short narrative for the group. "relevancies" holds one entry per place id you scored.`

const rankUserPrompt = `Places to score:
{places}`

const rankFormatExample = `{"response": "The ramen bar fits the budget best.", "relevancies": [{"id": "place-1", "relevancy": 0.9}, {"id": "place-2", "relevancy": 0.3}]}`
