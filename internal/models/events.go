package models

import "time"

// BaseEvent is embedded by every message written to an output destination.
// Timestamp drives the year/month/day/hour partitioning of file outputs.
// Parquet stores it as a nested "base" group since embedded fields need a tag.
type BaseEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	SessionID string `json:"sessionId,omitempty" parquet:"name=sessionId,type=BYTE_ARRAY,convertedtype=UTF8"`
}

func NewBaseEvent(eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		Timestamp: timestamp.Unix(),
		EventType: eventType,
	}
}

// RecommendationEvent records one list of restaurants shown to a user.
type RecommendationEvent struct {
	BaseEvent `parquet:"name=base"`
	User     string `json:"user" parquet:"name=user,type=BYTE_ARRAY,convertedtype=UTF8"`
	Strategy string `json:"strategy" parquet:"name=strategy,type=BYTE_ARRAY,convertedtype=UTF8"`
	Anchor   string `json:"anchor,omitempty" parquet:"name=anchor,type=BYTE_ARRAY,convertedtype=UTF8"`
	Names    string `json:"names" parquet:"name=names,type=BYTE_ARRAY,convertedtype=UTF8"`
	Count    int32  `json:"count" parquet:"name=count,type=INT32"`
}

// FeedbackEvent records a user's reaction to a restaurant and the score change it caused.
type FeedbackEvent struct {
	BaseEvent `parquet:"name=base"`
	User          string  `json:"user" parquet:"name=user,type=BYTE_ARRAY,convertedtype=UTF8"`
	Restaurant    string  `json:"restaurant" parquet:"name=restaurant,type=BYTE_ARRAY,convertedtype=UTF8"`
	Satisfied     bool    `json:"satisfied" parquet:"name=satisfied,type=BOOLEAN"`
	PreviousScore float64 `json:"previousScore" parquet:"name=previousScore,type=DOUBLE"`
	NewScore      float64 `json:"newScore" parquet:"name=newScore,type=DOUBLE"`
}

// VertexRecord is the export form of a restaurant vertex.
type VertexRecord struct {
	BaseEvent `parquet:"name=base"`
	Name        string  `json:"name" parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Category    string  `json:"category" parquet:"name=category,type=BYTE_ARRAY,convertedtype=UTF8"`
	Address     string  `json:"address" parquet:"name=address,type=BYTE_ARRAY,convertedtype=UTF8"`
	PriceTier   int32   `json:"priceTier" parquet:"name=priceTier,type=INT32"`
	Lat         float64 `json:"lat" parquet:"name=lat,type=DOUBLE"`
	Lon         float64 `json:"lon" parquet:"name=lon,type=DOUBLE"`
	ReviewScore float64 `json:"reviewScore" parquet:"name=reviewScore,type=DOUBLE"`
	Degree      int32   `json:"degree" parquet:"name=degree,type=INT32"`
}

// EdgeRecord is the export form of one undirected similarity edge.
type EdgeRecord struct {
	BaseEvent `parquet:"name=base"`
	From   string  `json:"from" parquet:"name=from,type=BYTE_ARRAY,convertedtype=UTF8"`
	To     string  `json:"to" parquet:"name=to,type=BYTE_ARRAY,convertedtype=UTF8"`
	Weight float64 `json:"weight" parquet:"name=weight,type=DOUBLE"`
	Metric string  `json:"metric" parquet:"name=metric,type=BYTE_ARRAY,convertedtype=UTF8"`
}
