package reader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/readalong/internal/language"
	"codeberg.org/snonux/readalong/internal/segment"
)

// Session is the loaded material for one reading text: the ordered segment
// list used by the playback view and the vocabulary list driving the learning
// cycle.
type Session struct {
	Text       string
	Segments   []segment.Segment
	Vocabulary []language.VocabularyItem

	// Degraded is set when the language service could not deliver segments
	// and the local tokenizer produced them instead. Segments then carry no
	// translations and Vocabulary may be empty.
	Degraded bool

	// SegmentsErr and VocabularyErr hold the individual fetch failures
	// behind Degraded, so the UI can say which call failed and why
	SegmentsErr   error
	VocabularyErr error
}

// Loader fetches vocabulary and segments for a reading text from the language
// service. Both requests run concurrently and fail independently.
type Loader struct {
	provider language.Provider

	mu      sync.Mutex
	loading bool
}

// NewLoader creates a loader over the given language provider
func NewLoader(provider language.Provider) *Loader {
	return &Loader{provider: provider}
}

// Loading reports whether a Load call is in flight
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Load fetches vocabulary and segments for text. The two requests run in
// parallel; a failed or empty segment response falls back to the local
// tokenizer, a failed vocabulary response leaves the vocabulary empty. Load
// only errors when the text itself is unusable.
func (l *Loader) Load(ctx context.Context, text string) (*Session, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("reading text is empty")
	}

	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil, fmt.Errorf("a load is already in progress")
	}
	l.loading = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.loading = false
		l.mu.Unlock()
	}()

	var (
		wg       sync.WaitGroup
		vocab    []language.VocabularyItem
		vocabErr error
		segs     []segment.Segment
		segsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vocab, vocabErr = l.provider.Vocabulary(ctx, text)
	}()
	go func() {
		defer wg.Done()
		segs, segsErr = l.provider.Segments(ctx, text)
	}()
	wg.Wait()

	session := &Session{Text: text}

	if segsErr != nil || len(segs) == 0 {
		session.Segments = segment.Tokenize(text)
		session.Degraded = true
		session.SegmentsErr = segsErr
	} else {
		session.Segments = segs
	}

	if vocabErr != nil {
		session.Degraded = true
		session.VocabularyErr = vocabErr
	} else {
		session.Vocabulary = vocab
	}

	return session, nil
}
