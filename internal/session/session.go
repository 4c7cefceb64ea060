// Package session tracks one user's recommendation state: the restaurant they
// last visited, which anchors similarity-based suggestions, and the
// restaurants they have rejected.
//
//	NoHistory    --Accept-->           HasLastVisit
//	HasLastVisit --Feedback(true)-->   HasLastVisit
//	HasLastVisit --Feedback(false)-->  NoHistory (anchor disliked)
//
// A Session is not safe for concurrent use; the graph it queries is.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chrisdamba/fooder/internal/geo"
	"github.com/chrisdamba/fooder/internal/graph"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"
)

const DefaultSize = 5

var ErrNoLastVisit = errors.New("no restaurant visited yet")

type State int

const (
	NoHistory State = iota
	HasLastVisit
)

func (s State) String() string {
	switch s {
	case NoHistory:
		return "NoHistory"
	case HasLastVisit:
		return "HasLastVisit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Strategies reported on recommendations and events.
const (
	StrategyConstraints = "constraints"
	StrategyRandom      = "random"
	StrategySimilar     = "similar"
)

// Publisher receives serialised session events. Output destinations
// implement it.
type Publisher interface {
	WriteMessage(topic string, msg []byte) error
}

type Options struct {
	// Size is the number of restaurants a random or similarity recommendation
	// returns. Default: DefaultSize.
	Size      int
	Publisher Publisher
	Logger    *zerolog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Query narrows a recommendation made without history.
type Query struct {
	Constraints *graph.Constraints
}

// Recommendation is one restaurant ready for display. Score is the similarity
// to the anchor for StrategySimilar; DistanceKm is set for StrategyConstraints.
type Recommendation struct {
	Name        string           `json:"name"`
	Address     string           `json:"address"`
	Category    models.Category  `json:"category"`
	PriceTier   models.PriceTier `json:"price_tier"`
	ReviewScore float64          `json:"review_score"`
	Score       float64          `json:"score,omitempty"`
	DistanceKm  float64          `json:"distance_km,omitempty"`
	Strategy    string           `json:"strategy"`
}

type Session struct {
	ID   string
	User string

	graph       *graph.Graph
	lastVisited string
	disliked    map[string]struct{}

	size      int
	publisher Publisher
	log       zerolog.Logger
	now       func() time.Time
}

func New(user string, g *graph.Graph, opts Options) *Session {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	id := cuid.New()
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "session").Str("session", id).Str("user", user).Logger()
	}
	return &Session{
		ID:        id,
		User:      user,
		graph:     g,
		disliked:  make(map[string]struct{}),
		size:      opts.Size,
		publisher: opts.Publisher,
		log:       log,
		now:       opts.Clock,
	}
}

func (s *Session) State() State {
	if s.lastVisited == "" {
		return NoHistory
	}
	return HasLastVisit
}

// LastVisited returns the current anchor, if any.
func (s *Session) LastVisited() (string, bool) {
	return s.lastVisited, s.lastVisited != ""
}

// Disliked returns the rejected restaurants in name order.
func (s *Session) Disliked() []string {
	out := make([]string, 0, len(s.disliked))
	for name := range s.disliked {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Accept records that the user went to name, making it the anchor.
func (s *Session) Accept(name string) error {
	if _, err := s.graph.Restaurant(name); err != nil {
		return err
	}
	s.lastVisited = name
	s.log.Debug().Str("restaurant", name).Msg("restaurant accepted")
	return nil
}

// Feedback applies the user's verdict on the anchor to its review score and
// returns the new score. A dissatisfied verdict dislikes the anchor and clears
// it.
func (s *Session) Feedback(satisfied bool) (float64, error) {
	name := s.lastVisited
	if name == "" {
		return 0, ErrNoLastVisit
	}
	previous, updated, err := s.graph.ApplyFeedback(name, satisfied)
	if err != nil {
		return 0, err
	}
	if !satisfied {
		s.disliked[name] = struct{}{}
		s.lastVisited = ""
	}

	s.log.Info().
		Str("restaurant", name).
		Bool("satisfied", satisfied).
		Float64("score", updated).
		Msg("feedback recorded")

	s.publish(models.TopicFeedback, models.FeedbackEvent{
		BaseEvent:     s.baseEvent(models.EventFeedbackApplied),
		User:          s.User,
		Restaurant:    name,
		Satisfied:     satisfied,
		PreviousScore: previous,
		NewScore:      updated,
	})
	return updated, nil
}

// Recommend suggests restaurants according to the current state. Without
// history it returns the constraint matches, or a random sample when there
// are none; with an anchor it returns the restaurants most similar to it.
// Disliked restaurants are never returned.
func (s *Session) Recommend(q Query) ([]Recommendation, error) {
	var (
		recs []Recommendation
		err  error
	)
	switch s.State() {
	case HasLastVisit:
		recs, err = s.similar()
	default:
		recs, err = s.fresh(q)
	}
	if err != nil {
		return nil, err
	}

	strategy := StrategyRandom
	if len(recs) > 0 {
		strategy = recs[0].Strategy
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	s.publish(models.TopicRecommendations, models.RecommendationEvent{
		BaseEvent: s.baseEvent(models.EventRecommendationServed),
		User:      s.User,
		Strategy:  strategy,
		Anchor:    s.lastVisited,
		Names:     strings.Join(names, ","),
		Count:     int32(len(recs)),
	})
	return recs, nil
}

func (s *Session) fresh(q Query) ([]Recommendation, error) {
	if q.Constraints != nil {
		var recs []Recommendation
		for _, r := range s.graph.FilterByConstraints(*q.Constraints) {
			if s.isDisliked(r.Name) {
				continue
			}
			rec := newRecommendation(r, StrategyConstraints)
			rec.DistanceKm = geo.Haversine(q.Constraints.Origin, r.Location)
			recs = append(recs, rec)
		}
		if len(recs) > 0 {
			return recs, nil
		}
		s.log.Debug().Msg("no restaurant matches the constraints, sampling at random")
	}

	sample, err := s.graph.RandomSample(s.size, s.disliked)
	if err != nil {
		return nil, err
	}
	recs := make([]Recommendation, len(sample))
	for i, r := range sample {
		recs[i] = newRecommendation(r, StrategyRandom)
	}
	return recs, nil
}

func (s *Session) similar() ([]Recommendation, error) {
	// Ask for enough matches that dropping every disliked one still leaves size.
	matches, err := s.graph.TopKSimilar(s.lastVisited, s.size+len(s.disliked), false)
	if err != nil {
		return nil, err
	}
	recs := make([]Recommendation, 0, s.size)
	for _, m := range matches {
		if len(recs) == s.size {
			break
		}
		if s.isDisliked(m.Name) {
			continue
		}
		r, err := s.graph.Restaurant(m.Name)
		if err != nil {
			return nil, err
		}
		rec := newRecommendation(r, StrategySimilar)
		rec.Score = m.Score
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Session) isDisliked(name string) bool {
	_, ok := s.disliked[name]
	return ok
}

func (s *Session) baseEvent(eventType string) models.BaseEvent {
	base := models.NewBaseEvent(eventType, s.now())
	base.SessionID = s.ID
	return base
}

// publish never fails the caller; a lost event is only logged.
func (s *Session) publish(topic string, event any) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("error serializing event")
		return
	}
	if err := s.publisher.WriteMessage(topic, data); err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("error writing event")
	}
}

func newRecommendation(r models.Restaurant, strategy string) Recommendation {
	return Recommendation{
		Name:        r.Name,
		Address:     r.Address,
		Category:    r.Category,
		PriceTier:   r.PriceTier,
		ReviewScore: r.ReviewScore,
		Strategy:    strategy,
	}
}
