package common

const (
	RedisStreamInsightAnalysis = "insight.analysis"

	RedisStreamGroup    = "executor-group"
	RedisStreamConsumer = "executor-consumer"

	RedisKeySubjectLock = "insight:lock:analysis:%d"
)

const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)
