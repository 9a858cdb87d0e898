// Package speech synthesizes spoken summaries to audio files. The
// preferred engine is the edge-tts neural voice, with OpenAI TTS as a
// selectable alternative and espeak-ng as the simple offline fallback.
package speech
