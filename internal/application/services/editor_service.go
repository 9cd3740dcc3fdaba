// Package services contains the application-layer orchestration between
// HTTP handlers and the infrastructure.
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/messaging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/security"
)

// AttachedItem is one entry in a relation list (artists on a song, presets
// on a synth). Attached items are identified by ID; Label is display-only.
type AttachedItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Input string `json:"input,omitempty"`
	Audio string `json:"audio,omitempty"`
}

// EditorSession holds the state of one open record editor. Sessions are
// keyed by ULID and survive until applied, closed, or reaped.
type EditorSession struct {
	ID         string                    `json:"id"`
	EntryType  catalog.EntityType        `json:"entryType"`
	EntryID    string                    `json:"entryId"`
	Data       map[string]any            `json:"data"`
	Fields     map[string]string         `json:"fields"`
	Colors     map[string]string         `json:"colors"`
	Lists      map[string][]AttachedItem `json:"lists"`
	Loading    bool                      `json:"loading"`
	Err        string                    `json:"error,omitempty"`
	HasChanges bool                      `json:"hasChanges"`
	LastActive time.Time                 `json:"-"`

	original struct {
		fields map[string]string
		colors map[string]string
		lists  map[string][]AttachedItem
	}
}

// EditorService owns all open editor sessions.
type EditorService struct {
	client      *gateway.Client
	cache       *manager.Manager
	broadcaster *messaging.RefreshBroadcaster
	logger      *logging.ChanneledLogger

	mu       sync.RWMutex
	sessions map[string]*EditorSession

	stopJanitor chan struct{}
}

// NewEditorService creates the editor service.
func NewEditorService(client *gateway.Client, cache *manager.Manager, broadcaster *messaging.RefreshBroadcaster, logger *logging.ChanneledLogger) *EditorService {
	return &EditorService{
		client:      client,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      logger,
		sessions:    make(map[string]*EditorSession),
	}
}

// Open creates a session for an entry and loads its current data from the
// upstream. The returned session already reflects the fetch result.
func (s *EditorService) Open(ctx context.Context, et catalog.EntityType, entryID string) (*EditorSession, error) {
	if !et.Valid() {
		return nil, fmt.Errorf("unknown entry type: %s", et)
	}
	cfg, ok := catalog.SlideoutConfigFor(et)
	if !ok {
		return nil, fmt.Errorf("no editor configured for entry type: %s", et)
	}

	session := &EditorSession{
		ID:         security.GenerateULID(),
		EntryType:  et,
		EntryID:    entryID,
		Fields:     make(map[string]string),
		Colors:     make(map[string]string),
		Lists:      make(map[string][]AttachedItem),
		Loading:    true,
		LastActive: time.Now().UTC(),
	}

	data, err := s.client.AdminEntry(ctx, et, entryID)
	session.Loading = false
	if err != nil {
		session.Err = err.Error()
		s.logger.Editor().Error("Failed to load entry for editing",
			"entryType", et, "entryId", entryID, "error", err.Error())
	} else {
		session.Data = data
		seedSession(session, cfg, data)
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Editor().Info("Editor session opened",
		"sessionId", session.ID, "entryType", et, "entryId", entryID)
	return session, nil
}

// seedSession populates the editable fields, colors, and lists from the
// fetched entry and snapshots them as the diff baseline.
func seedSession(session *EditorSession, cfg catalog.SlideoutConfig, data map[string]any) {
	row := catalog.Row(data)

	for _, input := range cfg.Inputs {
		if v, ok := row.FieldString(input.Key); ok {
			session.Fields[input.Key] = v
		} else {
			session.Fields[input.Key] = ""
		}
	}
	for _, picker := range cfg.ColorPickers {
		v, ok := row.FieldString(picker.Key)
		if !ok || v == "" {
			v = catalog.DefaultColor
		}
		session.Colors[picker.Key] = v
	}
	for _, list := range cfg.Lists {
		session.Lists[list.Key] = extractList(data, list)
	}

	session.original.fields = make(map[string]string, len(session.Fields))
	for k, v := range session.Fields {
		session.original.fields[k] = v
	}
	session.original.colors = make(map[string]string, len(session.Colors))
	for k, v := range session.Colors {
		session.original.colors[k] = v
	}
	session.original.lists = make(map[string][]AttachedItem, len(session.Lists))
	for k, items := range session.Lists {
		session.original.lists[k] = append([]AttachedItem(nil), items...)
	}
}

func extractList(data map[string]any, list catalog.ListField) []AttachedItem {
	raw, ok := data[list.Key].([]any)
	if !ok {
		return nil
	}
	items := make([]AttachedItem, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		row := catalog.Row(obj)
		item := AttachedItem{ID: row.ID()}
		if label, ok := row.FieldString(list.LabelField); ok {
			item.Label = label
		}
		if list.HasInput {
			if v, ok := row.FieldString(list.InputKey); ok {
				item.Input = v
			}
		}
		if list.HasAudio {
			if v, ok := row.FieldString(list.AudioKey); ok {
				item.Audio = v
			}
		}
		items = append(items, item)
	}
	return items
}

// Get returns a session by ID.
func (s *EditorService) Get(sessionID string) (*EditorSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

// EditField sets a text input's value. Any edit marks the session dirty;
// the flag never clears until apply or close, even if the value is edited
// back to its original.
func (s *EditorService) EditField(sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("editor session not found: %s", sessionID)
	}
	if _, known := session.Fields[key]; !known {
		return fmt.Errorf("unknown field for %s: %s", session.EntryType, key)
	}

	session.Fields[key] = value
	session.HasChanges = true
	session.LastActive = time.Now().UTC()
	return nil
}

// SetColor sets a color picker's value. An empty value resets the picker
// to the default white.
func (s *EditorService) SetColor(sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("editor session not found: %s", sessionID)
	}
	if _, known := session.Colors[key]; !known {
		return fmt.Errorf("unknown color field for %s: %s", session.EntryType, key)
	}

	if value == "" {
		value = catalog.DefaultColor
	}
	session.Colors[key] = value
	session.HasChanges = true
	session.LastActive = time.Now().UTC()
	return nil
}

// AttachListItem adds an item to a relation list. Attaching an ID that is
// already present is a no-op and does not dirty the session.
func (s *EditorService) AttachListItem(sessionID, listKey string, item AttachedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("editor session not found: %s", sessionID)
	}
	items, known := session.Lists[listKey]
	if !known {
		return fmt.Errorf("unknown list for %s: %s", session.EntryType, listKey)
	}

	for _, existing := range items {
		if existing.ID == item.ID {
			return nil
		}
	}

	session.Lists[listKey] = append(items, item)
	session.HasChanges = true
	session.LastActive = time.Now().UTC()
	return nil
}

// RemoveListItem removes an item from a relation list by ID.
func (s *EditorService) RemoveListItem(sessionID, listKey, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("editor session not found: %s", sessionID)
	}
	items, known := session.Lists[listKey]
	if !known {
		return fmt.Errorf("unknown list for %s: %s", session.EntryType, listKey)
	}

	kept := items[:0]
	removed := false
	for _, existing := range items {
		if existing.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return nil
	}

	session.Lists[listKey] = kept
	session.HasChanges = true
	session.LastActive = time.Now().UTC()
	return nil
}

// SetListItemInput updates the per-item input on a relation list item (a
// preset's name on a synth, for example).
func (s *EditorService) SetListItemInput(sessionID, listKey, itemID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("editor session not found: %s", sessionID)
	}
	items, known := session.Lists[listKey]
	if !known {
		return fmt.Errorf("unknown list for %s: %s", session.EntryType, listKey)
	}

	for i := range items {
		if items[i].ID == itemID {
			items[i].Input = value
			session.HasChanges = true
			session.LastActive = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("item not attached to %s: %s", listKey, itemID)
}

// Apply saves the session's changes upstream. Only fields whose value
// differs from the loaded baseline go into the payload; an untouched field
// is absent, not empty. After a successful save the entry is refetched,
// the session baseline resets, and open tables for the entity type are told
// to refresh.
func (s *EditorService) Apply(ctx context.Context, sessionID string, image *multipart.FileHeader) (*EditorSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("editor session not found: %s", sessionID)
	}

	payload, err := s.buildPayload(session, image)
	et := session.EntryType
	entryID := session.EntryID
	s.mu.Unlock()
	if err != nil {
		return session, err
	}

	if _, err := s.client.UpdateEntry(ctx, et, entryID, payload); err != nil {
		s.mu.Lock()
		session.Err = err.Error()
		s.mu.Unlock()
		s.logger.Editor().Error("Failed to apply editor changes",
			"sessionId", sessionID, "entryType", et, "entryId", entryID, "error", err.Error())
		return session, err
	}

	data, err := s.client.AdminEntry(ctx, et, entryID)

	s.mu.Lock()
	session.Err = ""
	session.HasChanges = false
	session.LastActive = time.Now().UTC()
	if err == nil {
		session.Data = data
		if cfg, ok := catalog.SlideoutConfigFor(et); ok {
			session.Fields = make(map[string]string)
			session.Colors = make(map[string]string)
			session.Lists = make(map[string][]AttachedItem)
			seedSession(session, cfg, data)
		}
	}
	s.mu.Unlock()

	s.cache.InvalidatePrefix(string(et))
	s.broadcaster.NotifyRefresh(et, entryID)
	s.logger.Editor().Info("Editor changes applied",
		"sessionId", sessionID, "entryType", et, "entryId", entryID)
	return session, nil
}

// buildPayload collects changed fields only. Caller holds s.mu.
func (s *EditorService) buildPayload(session *EditorSession, image *multipart.FileHeader) (*gateway.FormPayload, error) {
	payload := gateway.NewFormPayload()
	payload.Set("id", session.EntryID)

	for key, value := range session.Fields {
		if session.original.fields[key] != value {
			payload.Set(key, value)
		}
	}
	for key, value := range session.Colors {
		if session.original.colors[key] != value {
			payload.Set(key, value)
		}
	}
	for key, items := range session.Lists {
		if listEqual(session.original.lists[key], items) {
			continue
		}
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		payload.SetList(key, ids)
		for _, item := range items {
			if item.Input != "" {
				payload.Set(fmt.Sprintf("%s.%s", key, item.ID), item.Input)
			}
		}
	}

	if image != nil {
		if err := payload.AddFileHeader("image", image); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

func listEqual(a, b []AttachedItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Input != b[i].Input {
			return false
		}
	}
	return true
}

// Delete removes the entry upstream. An unconfirmed delete is a no-op: no
// request is sent and the session stays open.
func (s *EditorService) Delete(ctx context.Context, sessionID string, confirm bool) (bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("editor session not found: %s", sessionID)
	}
	if !confirm {
		return false, nil
	}

	et := session.EntryType
	entryID := session.EntryID
	if err := s.client.DeleteEntry(ctx, et, entryID); err != nil {
		s.logger.Editor().Error("Failed to delete entry",
			"sessionId", sessionID, "entryType", et, "entryId", entryID, "error", err.Error())
		return false, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.cache.InvalidatePrefix(string(et))
	s.broadcaster.NotifyRefresh(et, entryID)
	s.logger.Editor().Info("Entry deleted",
		"sessionId", sessionID, "entryType", et, "entryId", entryID)
	return true, nil
}

// Close discards a session. Unsaved edits are lost.
func (s *EditorService) Close(sessionID string) {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		s.logger.Editor().Info("Editor session closed", "sessionId", sessionID)
	}
}

// StartJanitor reaps sessions idle past maxIdle at the given interval.
func (s *EditorService) StartJanitor(interval, maxIdle time.Duration) {
	s.stopJanitor = make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.reapIdle(maxIdle)
			case <-s.stopJanitor:
				return
			}
		}
	}()
}

func (s *EditorService) reapIdle(maxIdle time.Duration) {
	cutoff := time.Now().UTC().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Editor().Info("Reaped idle editor session",
				"sessionId", id, "entryType", session.EntryType)
		}
	}
}

// StopJanitor stops the reaper goroutine.
func (s *EditorService) StopJanitor() {
	if s.stopJanitor != nil {
		close(s.stopJanitor)
	}
}

// SessionCount reports open sessions, for the health endpoint.
func (s *EditorService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
