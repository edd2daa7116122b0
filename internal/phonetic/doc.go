// Package phonetic provides IPA transcriptions for vocabulary words using
// OpenAI's GPT models. Transcriptions are shown alongside a word while it is
// being introduced.
package phonetic
