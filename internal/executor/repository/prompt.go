package repository

import (
	"encoding/json"
	"fmt"
	"strings"
)

func BuildClassifySentimentPrompt(texts []string) string {
	numbered, _ := json.Marshal(texts)

	promptTemplate := `You are a Korean stock-community sentiment analyst.
Classify each comment below as "Positive", "Negative" or "Neutral" from the point of view of an investor holding the stock.

Rules:
- Return exactly %d labels, one per comment, in the same order as the input.
- Use only the words Positive, Negative or Neutral.
- Sarcasm counts as the opinion actually meant.

Comments (JSON array):
%s

Answer only with JSON in this format:
{
  "sentiments": ["Positive | Negative | Neutral"]
}`

	return fmt.Sprintf(promptTemplate, len(texts), string(numbered))
}

func BuildSummarizeCommentsPrompt(corpus string) string {
	promptTemplate := `Below are recent comments from a Korean stock discussion board, one per line:

%s

Based on all comments above, write the answer in JSON:

{
  "summary": "<string - 2 or 3 sentences describing what investors are talking about, in Korean>",
  "keywords": ["<string - 5 to 10 short keywords or topics>"]
}`

	return fmt.Sprintf(promptTemplate, strings.TrimSpace(corpus))
}
