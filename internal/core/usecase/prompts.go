package usecase

import (
	"fmt"
	"strings"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

const noContextSentinel = "No specific solutions found in knowledge base"

func extractionPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze this customer conversation from telecom domain and extract the following information in JSON format:

Conversation: %s

Extract and return ONLY a valid JSON object with these exact keys:
- "topic_name": main topic or issue
- "description": brief description of the user query in 1 to 2 sentences
- "overall_sentiment": positive/negative/neutral

Return ONLY the JSON object, no additional text or explanation.
`, transcript)
}

func draftPrompt(transcript string, sentiment domain.Sentiment, matches []domain.CaseMatch, contactAddr string) string {
	contextStr := noContextSentinel
	if len(matches) > 0 {
		lines := make([]string, 0, len(matches))
		for _, m := range matches {
			lines = append(lines, "• "+m.Content)
		}
		contextStr = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are a telecom customer support agent. Generate a helpful response to the customer.

CUSTOMER CONVERSATION:
%s

CUSTOMER SENTIMENT: %s

AVAILABLE CONTEXT:
%s

IMPORTANT INSTRUCTIONS:
1. Start directly with a business-friendly response - no technical openings like "Based on results" or "Here's a possible response"
2. Be concise and helpful (4-5 sentences maximum)
3. Use bullet points if listing multiple items
4. If the customer needs follow-up or detailed assistance that can't be resolved here, tell them to email their details to: %s
5. Do NOT ask "Can you provide..." or "Could you give..." - directly instruct them to email if needed
6. Use the available context if relevant, otherwise use your knowledge to provide the best solution
7. If the query is NOT related to telecom services OR contains harmful/illegal requests OR asks for passwords, respond with: "I'm sorry, but I can only assist with telecom-related queries. Please ask questions related to our telecom services."

Generate the response:
`, transcript, sentiment, contextStr, contactAddr)
}
