package models

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ResourceType is the kind of asset an index entry points at
type ResourceType string

const (
	ResourceQuickApp  ResourceType = "quickapp"
	ResourceWatchFace ResourceType = "watchface"
	ResourceFirmware  ResourceType = "firmware"
	ResourceFontPack  ResourceType = "fontpack"
	ResourceIconPack  ResourceType = "iconpack"
)

// ParseResourceType validates a resource type cell
func ParseResourceType(s string) (ResourceType, error) {
	switch rt := ResourceType(strings.ToLower(strings.TrimSpace(s))); rt {
	case ResourceQuickApp, ResourceWatchFace, ResourceFirmware, ResourceFontPack, ResourceIconPack:
		return rt, nil
	default:
		return "", fmt.Errorf("unknown resource type %q", s)
	}
}

// PaidType describes whether an asset requires payment
type PaidType string

const (
	PaidFree      PaidType = ""
	PaidPaid      PaidType = "paid"
	PaidForcePaid PaidType = "force_paid"
)

// ParsePaidType validates a paid type cell. "free" is accepted as an alias of the empty value.
func ParsePaidType(s string) (PaidType, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "free":
		return PaidFree, nil
	case string(PaidPaid):
		return PaidPaid, nil
	case string(PaidForcePaid):
		return PaidForcePaid, nil
	default:
		return "", fmt.Errorf("unknown paid type %q", s)
	}
}

// String returns a printable label
func (p PaidType) String() string {
	if p == PaidFree {
		return "free"
	}
	return string(p)
}

// IndexEntry is one row of index_v2.csv
type IndexEntry struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	ResourceType   ResourceType `json:"restype"`
	RepoOwner      string       `json:"repo_owner"`
	RepoName       string       `json:"repo_name"`
	RepoCommitHash string       `json:"repo_commit_hash"`
	Icon           string       `json:"icon"`
	Cover          string       `json:"cover"`
	Tags           []string     `json:"tags"`
	DeviceVendors  []string     `json:"device_vendors"`
	Devices        []string     `json:"devices"`
	PaidType       PaidType     `json:"paid_type"`
}

// HasAnyDevice reports whether the entry targets any of the given devices
func (e IndexEntry) HasAnyDevice(devices []string) bool {
	for _, d := range e.Devices {
		for _, want := range devices {
			if d == want {
				return true
			}
		}
	}
	return false
}

// Matches reports whether the name or any tag contains the keyword (case-sensitive)
func (e IndexEntry) Matches(keyword string) bool {
	if strings.Contains(e.Name, keyword) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(tag, keyword) {
			return true
		}
	}
	return false
}

// PlaceholderID is the literal id some feed rows carry instead of a real one
const PlaceholderID = "placeholder"

// IsPlaceholderID reports whether an id cell must be synthesized
func IsPlaceholderID(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || id == PlaceholderID
}

// PlaceholderName builds the synthesized id for the n-th placeholder row
func PlaceholderName(n int) string {
	return PlaceholderID + "_" + strconv.Itoa(n)
}

var indexColumns = map[string][]string{
	"id":               {"id"},
	"name":             {"name"},
	"restype":          {"restype", "resource_type"},
	"repo_owner":       {"repo_owner"},
	"repo_name":        {"repo_name"},
	"repo_commit_hash": {"repo_commit_hash"},
	"icon":             {"icon", "icon_path"},
	"cover":            {"cover", "cover_path"},
	"tags":             {"tags"},
	"device_vendors":   {"device_vendors"},
	"devices":          {"devices"},
	"paid_type":        {"paid_type"},
}

// RowError describes a single index row that was dropped
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("index row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// IndexParseResult carries the retained entries and the rows that were skipped
type IndexParseResult struct {
	Entries []IndexEntry
	Dropped []*RowError
}

// ParseIndexCSV parses index_v2.csv. Malformed rows are dropped and reported in
// Dropped; only an unreadable document or a missing header column is fatal.
// Placeholder ids are rewritten to unique placeholder_<n> ids in row order.
func ParseIndexCSV(r io.Reader) (*IndexParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("index csv is empty")
		}
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	columns := make(map[string]int, len(indexColumns))
	for field, names := range indexColumns {
		found := false
		for _, name := range names {
			if pos, ok := positions[name]; ok {
				columns[field] = pos
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("index header is missing column %q", field)
		}
	}

	result := &IndexParseResult{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Dropped = append(result.Dropped, &RowError{Line: parseErr.StartLine, Err: err})
				continue
			}
			return nil, fmt.Errorf("failed to read index: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)

		entry, err := parseIndexRecord(record, header, columns)
		if err != nil {
			result.Dropped = append(result.Dropped, &RowError{Line: line, Err: err})
			continue
		}

		result.Entries = append(result.Entries, entry)
	}

	renamePlaceholders(result.Entries)
	return result, nil
}

// renamePlaceholders gives placeholder rows increasing placeholder_<n> ids,
// skipping any n whose id a real row already carries
func renamePlaceholders(entries []IndexEntry) {
	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !IsPlaceholderID(e.ID) {
			taken[e.ID] = true
		}
	}
	n := 0
	for i := range entries {
		if !IsPlaceholderID(entries[i].ID) {
			continue
		}
		for taken[PlaceholderName(n)] {
			n++
		}
		entries[i].ID = PlaceholderName(n)
		n++
	}
}

func parseIndexRecord(record, header []string, columns map[string]int) (IndexEntry, error) {
	if len(record) != len(header) {
		return IndexEntry{}, fmt.Errorf("expected %d fields, got %d", len(header), len(record))
	}

	cell := func(field string) string {
		return strings.TrimSpace(record[columns[field]])
	}

	resourceType, err := ParseResourceType(cell("restype"))
	if err != nil {
		return IndexEntry{}, err
	}
	paidType, err := ParsePaidType(cell("paid_type"))
	if err != nil {
		return IndexEntry{}, err
	}

	return IndexEntry{
		ID:             cell("id"),
		Name:           cell("name"),
		ResourceType:   resourceType,
		RepoOwner:      cell("repo_owner"),
		RepoName:       cell("repo_name"),
		RepoCommitHash: cell("repo_commit_hash"),
		Icon:           cell("icon"),
		Cover:          cell("cover"),
		Tags:           SplitList(cell("tags")),
		DeviceVendors:  SplitList(cell("device_vendors")),
		Devices:        SplitList(cell("devices")),
		PaidType:       paidType,
	}, nil
}

// SplitList splits a semicolon-joined cell, keeping first-seen order and
// dropping blanks and duplicates.
func SplitList(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
