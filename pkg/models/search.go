package models

import (
	"fmt"
	"strings"
)

// SortRule orders the paginated index
type SortRule string

const (
	SortRandom SortRule = "random"
	SortName   SortRule = "name"
	SortTime   SortRule = "time"
)

// ParseSortRule validates a sort rule name
func ParseSortRule(s string) (SortRule, error) {
	switch r := SortRule(strings.ToLower(strings.TrimSpace(s))); r {
	case SortRandom, SortName, SortTime:
		return r, nil
	case "":
		return SortTime, nil
	default:
		return "", fmt.Errorf("unknown sort rule %q (want random, name or time)", s)
	}
}

// SearchConfig narrows a page listing
type SearchConfig struct {
	Filter   *string  `json:"filter,omitempty"`
	Sort     SortRule `json:"sort"`
	Category []string `json:"category,omitempty"`
}

// ProviderStateKind enumerates provider lifecycle states
type ProviderStateKind string

const (
	StateReady    ProviderStateKind = "ready"
	StateUpdating ProviderStateKind = "updating"
	StateFailed   ProviderStateKind = "failed"
)

// ProviderState is a provider's lifecycle state. Reason is set only when Failed.
type ProviderState struct {
	Kind   ProviderStateKind `json:"kind"`
	Reason string            `json:"reason,omitempty"`
}

func Ready() ProviderState    { return ProviderState{Kind: StateReady} }
func Updating() ProviderState { return ProviderState{Kind: StateUpdating} }

func Failed(reason string) ProviderState {
	return ProviderState{Kind: StateFailed, Reason: reason}
}

func (s ProviderState) String() string {
	if s.Kind == StateFailed {
		return fmt.Sprintf("%s: %s", s.Kind, s.Reason)
	}
	return string(s.Kind)
}

// Progress statuses
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
)

// Progress is a download progress event. Progress ranges over [0, 1].
type Progress struct {
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}
