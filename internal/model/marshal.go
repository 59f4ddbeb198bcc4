package model

import (
	"encoding/json"
	"fmt"
)

// EncodeProgress serializes a progress snapshot for the local cache.
func EncodeProgress(ps *ProgressState) ([]byte, error) {
	data, err := json.Marshal(ps)
	if err != nil {
		return nil, fmt.Errorf("encode progress state: %w", err)
	}
	return data, nil
}

// DecodeProgress parses a cached progress snapshot. Nil maps are repaired so
// callers never index into nil.
func DecodeProgress(data []byte) (*ProgressState, error) {
	ps := NewProgressState()
	if err := json.Unmarshal(data, ps); err != nil {
		return nil, fmt.Errorf("decode progress state: %w", err)
	}
	if ps.Modules == nil {
		ps.Modules = make(map[string]*ModuleProgress)
	}
	for id, mp := range ps.Modules {
		if mp == nil {
			ps.Modules[id] = NewModuleProgress()
		} else if mp.Lessons == nil {
			mp.Lessons = make(map[string]LessonProgress)
		}
	}
	return ps, nil
}

// EncodeGamification serializes a gamification snapshot for the local cache.
func EncodeGamification(gs *GamificationState) ([]byte, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("encode gamification state: %w", err)
	}
	return data, nil
}

// DecodeGamification parses a cached gamification snapshot and normalizes it.
func DecodeGamification(data []byte) (*GamificationState, error) {
	gs := NewGamificationState()
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, fmt.Errorf("decode gamification state: %w", err)
	}
	gs.Normalize()
	return gs, nil
}
