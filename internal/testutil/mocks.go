package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/readalong/internal/language"
	"codeberg.org/snonux/readalong/internal/segment"
)

// MockLanguageProvider mocks the language service
type MockLanguageProvider struct {
	mu sync.Mutex

	VocabularyItems []language.VocabularyItem
	VocabularyErr   error
	SegmentList     []segment.Segment
	SegmentsErr     error
	Calls           []string
}

// Vocabulary returns the configured vocabulary items or error
func (m *MockLanguageProvider) Vocabulary(ctx context.Context, text string) ([]language.VocabularyItem, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Vocabulary: %s", text))
	m.mu.Unlock()

	if m.VocabularyErr != nil {
		return nil, m.VocabularyErr
	}
	return m.VocabularyItems, nil
}

// Segments returns the configured segment list or error
func (m *MockLanguageProvider) Segments(ctx context.Context, text string) ([]segment.Segment, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Segments: %s", text))
	m.mu.Unlock()

	if m.SegmentsErr != nil {
		return nil, m.SegmentsErr
	}
	return m.SegmentList, nil
}

// Name returns the mock provider name
func (m *MockLanguageProvider) Name() string { return "mock" }

// CallLog returns a copy of the recorded calls
func (m *MockLanguageProvider) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// MockAudioProvider mocks audio synthesis by writing placeholder MP3 data
type MockAudioProvider struct {
	mu sync.Mutex

	Err   error
	Calls []string
}

// GenerateAudio writes a placeholder audio file
func (m *MockAudioProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("GenerateAudio: %s -> %s", text, outputFile))
	m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	return os.WriteFile(outputFile, MP3Header(), 0644)
}

// Name returns the mock provider name
func (m *MockAudioProvider) Name() string { return "mock" }

// IsAvailable always reports available
func (m *MockAudioProvider) IsAvailable() error { return nil }

// MP3Header returns a minimal MP3 frame header for placeholder audio files
func MP3Header() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
