package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docs2md/backend/internal/convert"
	"github.com/docs2md/backend/internal/models"
	"github.com/docs2md/backend/internal/policy"
)

// DefaultMaxSessions limits concurrent sessions to prevent memory exhaustion.
const DefaultMaxSessions = 50

// SessionMaxAge is how long to keep sessions before cleanup.
const SessionMaxAge = 30 * time.Minute

// UploadedFile is one file taken from the multipart form, in upload order.
type UploadedFile struct {
	Name string
	Data []byte
}

// Manager owns the active conversion sessions. A session holds the results
// of one upload interaction and nothing outlives its TTL.
type Manager struct {
	sessions    map[string]*State
	mu          sync.RWMutex
	converter   convert.Converter
	pol         *policy.Policy
	maxSessions int
}

// State holds a session plus bookkeeping the API never sees.
type State struct {
	Session      *models.ConvertSession
	LastAccessed time.Time

	// byDigest maps SHA-256 of the payload to the first result produced
	// from it, so re-uploading identical bytes reuses the conversion.
	byDigest map[string]*models.ConversionResult
}

// NewManager creates a session manager.
func NewManager(c convert.Converter, pol *policy.Policy, maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*State),
		converter:   c,
		pol:         pol,
		maxSessions: maxSessions,
	}
}

// Policy returns the conversion policy in effect.
func (m *Manager) Policy() *policy.Policy {
	return m.pol
}

// ConvertBatch creates a session and converts each file synchronously, in
// the order presented. A failed file yields a failed result in place; it
// never aborts the rest of the batch.
func (m *Manager) ConvertBatch(files []UploadedFile, plainTextExport bool) *models.ConvertSession {
	m.evictIfAtLimit()

	sess := models.NewConvertSession(uuid.New().String())
	// A plain-text request only sticks when the policy allows the export.
	sess.PlainTextExport = plainTextExport && m.pol.PlainTextExport
	sess.Status = models.SessionStatusConverting

	state := &State{
		Session:      sess,
		LastAccessed: time.Now(),
		byDigest:     make(map[string]*models.ConversionResult),
	}

	for _, f := range files {
		sess.Results = append(sess.Results, m.convertOne(state, f))
	}

	sess.Status = models.SessionStatusComplete

	m.mu.Lock()
	m.sessions[sess.ID] = state
	m.mu.Unlock()

	return sess
}

// convertOne validates and converts a single file into a result.
func (m *Manager) convertOne(state *State, f UploadedFile) *models.ConversionResult {
	res := &models.ConversionResult{
		ID:            uuid.New().String(),
		SourceName:    f.Name,
		OriginalBytes: int64(len(f.Data)),
		ConvertedAt:   time.Now(),
	}

	if f.Name == "" {
		return failed(res, "filename missing")
	}
	if len(f.Data) == 0 {
		return failed(res, "file is empty")
	}
	if !m.pol.Allows(f.Name) {
		return failed(res, fmt.Sprintf("unsupported file type: %s", f.Name))
	}
	if hardCap := m.pol.HardCapBytes(); hardCap > 0 && res.OriginalBytes > hardCap {
		return failed(res, fmt.Sprintf("file exceeds hard size cap of %d MB", m.pol.HardCapMB))
	}
	if warn := m.pol.WarnSizeBytes(); warn > 0 && res.OriginalBytes > warn {
		res.Warning = fmt.Sprintf("file is %.1f MB; conversion may take longer", float64(res.OriginalBytes)/(1024*1024))
	}

	digest := sha256.Sum256(f.Data)
	key := hex.EncodeToString(digest[:])
	if prev, ok := state.byDigest[key]; ok {
		clone := *prev
		clone.ID = res.ID
		clone.SourceName = f.Name
		clone.Warning = res.Warning
		clone.Deduplicated = true
		clone.ConvertedAt = res.ConvertedAt
		return &clone
	}

	out, err := m.converter.Convert(f.Data, f.Name)
	if err != nil {
		res.MediaType = convert.DetectMediaType(f.Data)
		return failed(res, err.Error())
	}

	res.Status = models.ResultStatusConverted
	res.Markdown = out.Markdown
	res.Title = out.Title
	res.MediaType = out.MediaType
	res.MarkdownBytes = int64(len(out.Markdown))
	res.PlainText = convert.StripMarkdown(out.Markdown)
	res.PlainTextBytes = int64(len(res.PlainText))

	state.byDigest[key] = res
	return res
}

func failed(res *models.ConversionResult, reason string) *models.ConversionResult {
	res.Status = models.ResultStatusFailed
	res.Error = reason
	return res
}

// Get returns a session by ID and refreshes its last-accessed time.
func (m *Manager) Get(id string) (*models.ConvertSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = time.Now()
	return state.Session, true
}

// Touch refreshes a session's TTL. Returns false if the session is gone.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions evicts sessions not accessed within maxAge. Returns the
// number evicted.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// evictIfAtLimit drops the oldest sessions when the session cap is reached.
func (m *Manager) evictIfAtLimit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < m.maxSessions {
		return
	}

	type aged struct {
		id       string
		accessed time.Time
	}
	var all []aged
	for id, state := range m.sessions {
		all = append(all, aged{id, state.LastAccessed})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].accessed.Before(all[j].accessed)
	})

	// Make room for one new session.
	for i := 0; i <= len(all)-m.maxSessions; i++ {
		delete(m.sessions, all[i].id)
	}
}
