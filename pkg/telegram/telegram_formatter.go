package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-finance-insight/pkg/utils"
)

const (
	maxMessageLen = 4090
	// room left for the header, stats and keywords of a digest
	digestOverhead = 600
)

// AnalysisDigest is the Telegram view of one finished sentiment run.
type AnalysisDigest struct {
	CompanyName string
	StockCode   string
	Summary     string
	Keywords    []string
	Positive    int
	Negative    int
	Neutral     int
	FinishedAt  time.Time
}

func FormatErrorAlertMessage(t time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(t), errType, errMsg, data)
}

// FormatAnalysisDigest renders a single run as Markdown.
func FormatAnalysisDigest(d AnalysisDigest) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 *%s*", d.CompanyName))
	if d.StockCode != "" {
		b.WriteString(fmt.Sprintf(" `%s`", d.StockCode))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s *Sentiment:* 👍 %d / 👎 %d / 😐 %d\n",
		sentimentIcon(d.Positive, d.Negative), d.Positive, d.Negative, d.Neutral))

	if d.Summary != "" {
		b.WriteString(fmt.Sprintf("💬 *Summary:* %s\n", utils.Truncate(d.Summary, maxMessageLen-digestOverhead)))
	}
	if len(d.Keywords) > 0 {
		b.WriteString(fmt.Sprintf("🏷 *Keywords:* %s\n", strings.Join(d.Keywords, ", ")))
	}
	if !d.FinishedAt.IsZero() {
		b.WriteString(utils.PrettyDate(d.FinishedAt))
		b.WriteString("\n")
	}
	return b.String()
}

func sentimentIcon(positive, negative int) string {
	switch {
	case positive > negative:
		return "😊"
	case negative > positive:
		return "😟"
	default:
		return "😐"
	}
}
