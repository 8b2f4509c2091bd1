package pipeline

import (
	"fmt"
	"strings"
)

// classifyPrompt asks the model to route a raw message. The two labels are
// matched by substring later, so the exact phrasing of the response does
// not matter as long as one label appears.
func classifyPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an assistant for a personal finance tracker.\n\n")
	b.WriteString("Classify the user's input into one of two categories:\n\n")
	b.WriteString("1. \"context\" - if the message contains financial information to be stored, such as:\n")
	b.WriteString("   - past or present expenses or income\n")
	b.WriteString("   - what the user spent, paid, earned, got, or bought\n")
	b.WriteString("   - transactions that include date, time, amount, category, etc.\n")
	b.WriteString("   - even if the tone is casual or starts with \"add\", \"note\", \"log\", \"save\", etc.\n\n")
	b.WriteString("2. \"query\" - if the message asks a question or requests a report/summary, such as:\n")
	b.WriteString("   - \"how much did I spend today?\"\n")
	b.WriteString("   - \"what is my income this month?\"\n")
	b.WriteString("   - \"show me expenses for groceries last week\"\n")
	b.WriteString("   - instructions like \"delete today's records\", \"clear all income\", which need a data operation\n\n")
	b.WriteString("Input:\n\"\"\"")
	b.WriteString(text)
	b.WriteString("\"\"\"\n\n")
	b.WriteString("Output (only one word - \"context\" or \"query\"):\n")
	return b.String()
}

// extractPrompt asks for a single JSON object keyed by transaction kind.
// Guessing the current date or time is explicitly forbidden; substitution
// happens locally with the processing instant.
func extractPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an expense tracker assistant.\n\n")
	b.WriteString("Given the following input, extract the data in structured JSON format (without guessing current date/time).\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- If it's an expense, extract:\n")
	b.WriteString("    - \"type\": \"expense\"\n")
	b.WriteString("    - \"amount\": numeric amount\n")
	b.WriteString("    - \"category\": (e.g., food, fuel, shopping)\n")
	b.WriteString("    - \"target\": item or purpose (e.g., milk, petrol, shoes)\n")
	b.WriteString("    - \"date\": only if explicitly present, otherwise null\n")
	b.WriteString("    - \"time\": only if explicitly present, otherwise null\n\n")
	b.WriteString("- If it's income, extract:\n")
	b.WriteString("    - \"type\": \"income\"\n")
	b.WriteString("    - \"amount\": numeric amount\n")
	b.WriteString("    - \"source\": (e.g., mom, salary, refund)\n")
	b.WriteString("    - \"date\": only if explicitly present, otherwise null\n")
	b.WriteString("    - \"time\": only if explicitly present, otherwise null\n\n")
	b.WriteString("Only return the JSON object. Do NOT wrap it in code fences. Input:\n\"\"\"")
	b.WriteString(text)
	b.WriteString("\"\"\"\n")
	return b.String()
}

// translatePrompt declares the transactions schema and the two supported
// request shapes: analytical aggregation and filtered deletion. Scoping to
// the requesting user is NOT the model's job; that happens in sqlscope.
func translatePrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that converts natural language questions and commands into PostgreSQL SQL queries.\n\n")
	b.WriteString("The database has one table called `transactions` with the following columns:\n")
	b.WriteString("- type (TEXT) - either 'income' or 'expense'\n")
	b.WriteString("- amount (NUMERIC)\n")
	b.WriteString("- category (TEXT)\n")
	b.WriteString("- target (TEXT)\n")
	b.WriteString("- source (TEXT)\n")
	b.WriteString("- date (DATE, in YYYY-MM-DD format)\n")
	b.WriteString("- time (TIME, in HH:MM format)\n\n")
	b.WriteString("Here's what you must support:\n")
	b.WriteString("1. Analytical queries (e.g., \"total income this week\", \"expenses yesterday\"):\n")
	b.WriteString("   - Use appropriate aggregate functions (like `SUM`).\n")
	b.WriteString("   - Always return `income` before `expense` when both are requested.\n")
	b.WriteString("   - Use PostgreSQL syntax only.\n")
	b.WriteString("   - Use `CURRENT_DATE`, `CURRENT_DATE - INTERVAL '7 days'`, etc., to filter by date.\n")
	b.WriteString("   - Example: `WHERE date = CURRENT_DATE - INTERVAL '1 day'`\n\n")
	b.WriteString("2. Data manipulation commands (e.g., \"delete all expenses\", \"clear yesterday's income\"):\n")
	b.WriteString("   - Generate a valid `DELETE FROM transactions ...` SQL query.\n")
	b.WriteString("   - Use correct filters to match the intent (e.g., `WHERE type='expense' AND date=CURRENT_DATE - INTERVAL '1 day'`).\n")
	b.WriteString("   - Never delete more than the request asks for.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Always output only the SQL query - no markdown, explanation, or extra text.\n")
	b.WriteString("- Be precise and minimal.\n\n")
	b.WriteString("User request: \"")
	b.WriteString(text)
	b.WriteString("\"\n\nSQL:\n")
	return b.String()
}

// answerPrompt turns query results into a conversational reply.
func answerPrompt(question, result string) string {
	var b strings.Builder
	b.WriteString("You are a personal expense tracker and advisor that speaks casually and helps users understand their finances.\n\n")
	b.WriteString("The user asked: \"")
	b.WriteString(question)
	b.WriteString("\"\n\nQuery result:\n")
	b.WriteString(result)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- Speak in a friendly and casual tone.\n")
	b.WriteString("- If the user's question is about advice, suggestion, or insights, give helpful feedback based on the data.\n")
	b.WriteString("- If the result is empty or null, reply that you couldn't find any data but still offer a helpful or motivational message. Never invent numbers.\n")
	b.WriteString("- Don't answer unrelated questions.\n")
	b.WriteString("- Be encouraging and supportive.\n")
	b.WriteString("- Just give the final response without any extra text or markdown.\n")
	b.WriteString("- Use only the rupee symbol for currency.\n")
	b.WriteString("- When you compare income and expenses, always show income first, then expenses.\n\n")
	b.WriteString("Now generate a natural, conversational reply based on the above.\n")
	return b.String()
}

// outcomePrompt asks for a one-sentence confirmation of a save attempt
// without the literal status words.
func outcomePrompt(saved bool) string {
	status := "successfully saved"
	if !saved {
		status = "failed to save"
	}

	var b strings.Builder
	b.WriteString("You are a friendly and casual personal expense tracker assistant.\n\n")
	fmt.Fprintf(&b, "A user just submitted a transaction. It was %s.\n\n", status)
	b.WriteString("Now, respond with one short, friendly, and varied sentence to the user:\n")
	b.WriteString("- If it was saved: confirm cheerfully that it's added.\n")
	b.WriteString("- If it failed: gently inform them and suggest trying again.\n")
	b.WriteString("- Never mention the system status like \"saved\" or \"failed\" literally.\n")
	b.WriteString("- Don't be repetitive - no \"Noted\" or \"It's in your records\".\n")
	b.WriteString("- Sound like a natural, helpful assistant.\n\n")
	b.WriteString("Respond now:\n")
	return b.String()
}
