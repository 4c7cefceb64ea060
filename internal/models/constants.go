package models

const (
	TopicRecommendations = "recommendation_events"
	TopicFeedback        = "feedback_events"
	TopicGraphVertices   = "graph_vertices"
	TopicGraphEdges      = "graph_edges"

	EventRecommendationServed = "RecommendationServed"
	EventFeedbackApplied      = "FeedbackApplied"
	EventGraphVertex          = "GraphVertex"
	EventGraphEdge            = "GraphEdge"

	MetricWeighted = "weighted"
	MetricGeo      = "geo"

	OutputNone    = "none"
	OutputConsole = "console"
	OutputLocal   = "local"
	OutputS3      = "s3"
	OutputKafka   = "kafka"
)
