// Package models provides functionality for listing and categorizing
// available TTS models and voices. It helps users discover which OpenAI
// models and edge-tts voices are available for paper announcements.
package models
