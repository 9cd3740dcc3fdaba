package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// SuggestState is the current suggestion box for one search field.
type SuggestState struct {
	Query       string                `json:"query"`
	Options     []catalog.FieldOption `json:"options"`
	Cursor      int                   `json:"cursor"`
	Open        bool                  `json:"open"`
	Loading     bool                  `json:"loading"`
	LastUpdated time.Time             `json:"lastUpdated"`
}

type suggestField struct {
	table   catalog.EntityType
	state   SuggestState
	timer   *time.Timer
	cancel  context.CancelFunc
	pending string
}

// SuggestService runs the typeahead for relation search fields. Keystrokes
// are debounced: a new keystroke within the debounce window resets the
// timer, so a burst of typing produces a single upstream request. A new
// request cancels the previous in-flight one.
type SuggestService struct {
	client   *gateway.Client
	logger   *logging.ChanneledLogger
	debounce time.Duration
	limit    int

	mu     sync.Mutex
	fields map[string]*suggestField
}

// NewSuggestService creates the suggest service. debounce is the quiet
// period after the last keystroke; limit caps the returned option count.
func NewSuggestService(client *gateway.Client, logger *logging.ChanneledLogger, debounce time.Duration, limit int) *SuggestService {
	return &SuggestService{
		client:   client,
		logger:   logger,
		debounce: debounce,
		limit:    limit,
		fields:   make(map[string]*suggestField),
	}
}

// Type registers a keystroke on a search field. fieldKey identifies the
// field instance (session id plus field name); table is the entity type
// searched. The upstream request fires only after the debounce window
// passes with no further keystrokes.
func (s *SuggestService) Type(fieldKey string, table catalog.EntityType, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.fields[fieldKey]
	if !ok {
		field = &suggestField{table: table}
		s.fields[fieldKey] = field
	}

	field.table = table
	field.state.Query = text
	field.pending = text

	if strings.TrimSpace(text) == "" {
		if field.timer != nil {
			field.timer.Stop()
		}
		if field.cancel != nil {
			field.cancel()
			field.cancel = nil
		}
		field.state = SuggestState{LastUpdated: time.Now().UTC()}
		return
	}

	field.state.Loading = true
	if field.timer != nil {
		field.timer.Stop()
	}
	field.timer = time.AfterFunc(s.debounce, func() {
		s.fire(fieldKey)
	})
}

// fire runs after the debounce window closes with no further keystrokes.
func (s *SuggestService) fire(fieldKey string) {
	s.mu.Lock()
	field, ok := s.fields[fieldKey]
	if !ok {
		s.mu.Unlock()
		return
	}

	if field.cancel != nil {
		field.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	field.cancel = cancel
	query := field.pending
	table := field.table
	s.mu.Unlock()

	options, err := s.client.FieldData(ctx, table, query, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok = s.fields[fieldKey]
	if !ok || field.pending != query {
		// A newer keystroke superseded this request.
		return
	}
	field.cancel = nil
	field.state.Loading = false
	field.state.LastUpdated = time.Now().UTC()

	if err != nil {
		if ctx.Err() == context.Canceled {
			return
		}
		s.logger.Gateway().Error("Suggestion lookup failed",
			"table", table, "query", query, "error", err.Error())
		field.state.Options = nil
		field.state.Open = false
		return
	}

	if len(options) > s.limit {
		options = options[:s.limit]
	}
	field.state.Options = options
	field.state.Open = len(options) > 0
	field.state.Cursor = 0
}

// State returns the current suggestion box for a field.
func (s *SuggestService) State(fieldKey string) (SuggestState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	field, ok := s.fields[fieldKey]
	if !ok {
		return SuggestState{}, false
	}
	return field.state, true
}

// MoveCursor moves the highlighted option up or down, wrapping at either
// end of the list.
func (s *SuggestService) MoveCursor(fieldKey string, delta int) (SuggestState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.fields[fieldKey]
	if !ok || !field.state.Open || len(field.state.Options) == 0 {
		if ok {
			return field.state, true
		}
		return SuggestState{}, false
	}

	n := len(field.state.Options)
	field.state.Cursor = ((field.state.Cursor+delta)%n + n) % n
	return field.state, true
}

// Select returns the highlighted option and closes the box.
func (s *SuggestService) Select(fieldKey string) (catalog.FieldOption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.fields[fieldKey]
	if !ok || !field.state.Open || len(field.state.Options) == 0 {
		return catalog.FieldOption{}, false
	}

	option := field.state.Options[field.state.Cursor]
	field.state.Open = false
	field.state.Options = nil
	field.state.Cursor = 0
	return option, true
}

// Dismiss closes the suggestion box without selecting.
func (s *SuggestService) Dismiss(fieldKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.fields[fieldKey]
	if !ok {
		return
	}
	field.state.Open = false
	field.state.Options = nil
	field.state.Cursor = 0
}

// Drop discards all state for a field, cancelling any pending work. Called
// when its editor session closes.
func (s *SuggestService) Drop(fieldKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(fieldKey)
}

// DropPrefix discards every field whose key starts with prefix. Field keys
// embed the editor session id, so closing a session drops all its search
// fields at once.
func (s *SuggestService) DropPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.fields {
		if strings.HasPrefix(key, prefix) {
			s.dropLocked(key)
		}
	}
}

func (s *SuggestService) dropLocked(fieldKey string) {
	field, ok := s.fields[fieldKey]
	if !ok {
		return
	}
	if field.timer != nil {
		field.timer.Stop()
	}
	if field.cancel != nil {
		field.cancel()
	}
	delete(s.fields, fieldKey)
}
